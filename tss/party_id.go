// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import (
	"fmt"
	"math/big"
	"sort"
)

type (
	// PartyID identifies a participant in a protocol session. Key is a
	// stable identifier supplied by the caller (e.g. a public key); Index
	// is assigned once the full cohort is known by sorting on Key.
	PartyID struct {
		Id      string
		Moniker string
		Key     *big.Int
		Index   int
	}

	UnSortedPartyIDs []*PartyID
	SortedPartyIDs   []*PartyID
)

// NewPartyID constructs a PartyID with no index assigned. Call SortPartyIDs
// on the full cohort to assign indices.
func NewPartyID(id, moniker string, key *big.Int) *PartyID {
	return &PartyID{Id: id, Moniker: moniker, Key: key, Index: -1}
}

func (pid *PartyID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{%d,%s}", pid.Index, pid.Moniker)
}

func (pid *PartyID) ValidateBasic() bool {
	return pid != nil && pid.Key != nil && 0 <= pid.Index
}

// SortPartyIDs orders ids by Key ascending and assigns Index = position + startAt.
func SortPartyIDs(ids UnSortedPartyIDs, startAt ...int) SortedPartyIDs {
	frm := 0
	if len(startAt) > 0 {
		frm = startAt[0]
	}
	sorted := make(SortedPartyIDs, len(ids))
	copy(sorted, ids)
	sort.Sort(sorted)
	for i, id := range sorted {
		id.Index = i + frm
	}
	return sorted
}

func (spids SortedPartyIDs) Len() int      { return len(spids) }
func (spids SortedPartyIDs) Swap(a, b int) { spids[a], spids[b] = spids[b], spids[a] }
func (spids SortedPartyIDs) Less(a, b int) bool {
	return spids[a].Key.Cmp(spids[b].Key) < 0
}

func (spids SortedPartyIDs) Keys() []*big.Int {
	keys := make([]*big.Int, len(spids))
	for i, pid := range spids {
		keys[i] = pid.Key
	}
	return keys
}

func (spids SortedPartyIDs) FindByKey(key *big.Int) *PartyID {
	for _, pid := range spids {
		if pid.Key.Cmp(key) == 0 {
			return pid
		}
	}
	return nil
}

func (spids SortedPartyIDs) FindByIndex(index int) *PartyID {
	for _, pid := range spids {
		if pid.Index == index {
			return pid
		}
	}
	return nil
}

// PeerContext is the sorted, immutable view of the cohort a session runs
// over. It never mutates once a session has started.
type PeerContext struct {
	parties SortedPartyIDs
}

func NewPeerContext(parties SortedPartyIDs) *PeerContext {
	return &PeerContext{parties: parties}
}

func (ctx *PeerContext) Parties() SortedPartyIDs { return ctx.parties }

func (ctx *PeerContext) Len() int { return len(ctx.parties) }
