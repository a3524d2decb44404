// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/keyshard/tss-party/tss"
)

func newParty(id int) *PartyID {
	return &PartyID{Id: "p", Moniker: "p", Key: big.NewInt(int64(id + 1)), Index: id}
}

func identityProject(data MessageData) (interface{}, bool) {
	m, ok := data.(testMsg)
	return m, ok
}

type testMsg struct {
	tag RoundTag
	val int
}

func (m testMsg) Tag() RoundTag { return m.tag }

func identityPos(n int) PosOf {
	return func(sender *PartyID) (int, bool) {
		if sender == nil || sender.Index < 0 || sender.Index >= n {
			return 0, false
		}
		return sender.Index, true
	}
}

func TestCollectTimesOutWithOnlyOwnSlot(t *testing.T) {
	recv := make(chan IncomingMessage, 4)
	k := 3
	slots, code, err := Collect(recv, 1, testMsg{tag: KeyGenRound1, val: 42}, k, identityPos(k), identityProject, time.Millisecond, 50*time.Millisecond)
	// only self is ever filled; the other two slots never arrive, so this times out.
	assert.Equal(t, ErrCollectTimeout, code)
	assert.Error(t, err)
	_ = slots
}

func TestCollectFillsAllSlots(t *testing.T) {
	recv := make(chan IncomingMessage, 4)
	k := 3
	recv <- IncomingSend{Sender: newParty(0), Data: testMsg{tag: KeyGenRound1, val: 1}}
	recv <- IncomingSend{Sender: newParty(2), Data: testMsg{tag: KeyGenRound1, val: 3}}

	slots, code, err := Collect(recv, 1, testMsg{tag: KeyGenRound1, val: 2}, k, identityPos(k), identityProject, time.Millisecond, 200*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, ErrorCode(0), code)
	assert.Len(t, slots, k)
	assert.Equal(t, testMsg{tag: KeyGenRound1, val: 2}, slots[1])
	assert.Equal(t, testMsg{tag: KeyGenRound1, val: 1}, slots[0])
	assert.Equal(t, testMsg{tag: KeyGenRound1, val: 3}, slots[2])
}

func TestCollectDuplicateOverwrites(t *testing.T) {
	recv := make(chan IncomingMessage, 4)
	k := 2
	recv <- IncomingSend{Sender: newParty(0), Data: testMsg{tag: KeyGenRound1, val: 1}}
	recv <- IncomingSend{Sender: newParty(0), Data: testMsg{tag: KeyGenRound1, val: 99}}

	slots, _, err := Collect(recv, 1, testMsg{tag: KeyGenRound1}, k, identityPos(k), identityProject, time.Millisecond, 200*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, testMsg{tag: KeyGenRound1, val: 99}, slots[0])
}

func TestCollectUnexpectedDataIsFatal(t *testing.T) {
	recv := make(chan IncomingMessage, 4)
	k := 2
	recv <- IncomingSend{Sender: newParty(0), Data: testMsg{tag: KeyGenRound2, val: 1}}

	project := func(data MessageData) (interface{}, bool) {
		m, ok := data.(testMsg)
		if !ok || m.tag != KeyGenRound1 {
			return nil, false
		}
		return m, true
	}

	_, code, err := Collect(recv, 1, testMsg{tag: KeyGenRound1}, k, identityPos(k), project, time.Millisecond, 200*time.Millisecond)
	assert.Equal(t, ErrCollectUnexpectedData, code)
	assert.Error(t, err)
}

func TestCollectDisconnected(t *testing.T) {
	recv := make(chan IncomingMessage)
	close(recv)
	k := 2
	_, code, err := Collect(recv, 1, testMsg{tag: KeyGenRound1}, k, identityPos(k), identityProject, time.Millisecond, 200*time.Millisecond)
	assert.Equal(t, ErrCollectDisconnected, code)
	assert.Error(t, err)
}

func TestCollectTimeout(t *testing.T) {
	recv := make(chan IncomingMessage)
	k := 2
	start := time.Now()
	_, code, err := Collect(recv, 1, testMsg{tag: KeyGenRound1}, k, identityPos(k), identityProject, 10*time.Millisecond, 60*time.Millisecond)
	elapsed := time.Since(start)
	assert.Equal(t, ErrCollectTimeout, code)
	assert.Error(t, err)
	assert.True(t, elapsed >= 50*time.Millisecond)
}

func TestSortPartyIDsAssignsIndex(t *testing.T) {
	a := NewPartyID("a", "a", big.NewInt(3))
	b := NewPartyID("b", "b", big.NewInt(1))
	c := NewPartyID("c", "c", big.NewInt(2))
	sorted := SortPartyIDs(UnSortedPartyIDs{a, b, c})
	assert.Equal(t, 0, sorted[0].Index)
	assert.Equal(t, b, sorted[0])
	assert.Equal(t, 1, sorted[1].Index)
	assert.Equal(t, c, sorted[1])
	assert.Equal(t, 2, sorted[2].Index)
	assert.Equal(t, a, sorted[2])
}
