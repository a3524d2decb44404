// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen_test

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keyshard/tss-party/crypto"
	"github.com/keyshard/tss-party/crypto/vss"
	"github.com/keyshard/tss-party/keygen"
	"github.com/keyshard/tss-party/tss"
)

// generatePartyIDs builds n sorted, 0..n-1 indexed party ids for tests.
func generatePartyIDs(n int) tss.SortedPartyIDs {
	ids := make(tss.UnSortedPartyIDs, n)
	for i := 0; i < n; i++ {
		ids[i] = tss.NewPartyID("", "", big.NewInt(int64(1000+i)))
	}
	return tss.SortPartyIDs(ids)
}

// runKeygen drives n in-process parties through a full DKG session, wired
// by a fan-out relay that forwards every broadcast/unicast to its
// addressee(s), and returns each party's terminal result in party-index order.
func runKeygen(t *testing.T, n, threshold int, poll, timeout time.Duration) []*keygen.KeyGenResult {
	t.Helper()
	pids := generatePartyIDs(n)
	ctx := tss.NewPeerContext(pids)

	emitters := make([]chan tss.OutgoingMessage, n)
	receivers := make([]chan tss.IncomingMessage, n)
	for i := 0; i < n; i++ {
		emitters[i] = make(chan tss.OutgoingMessage, 64)
		receivers[i] = make(chan tss.IncomingMessage, 64)
	}

	results := make([]*keygen.KeyGenResult, n)
	errs := make([]*tss.ErrorMessage, n)
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		i := i
		params := tss.NewParameters(crypto.EC(), ctx, pids[i], n, threshold)
		params.SetCollectPolicy(poll, timeout)

		go func() {
			for msg := range emitters[i] {
				switch m := msg.(type) {
				case tss.SendMessage:
					if m.Target == nil {
						for j := 0; j < n; j++ {
							if j == i {
								continue
							}
							receivers[j] <- tss.IncomingSend{Sender: pids[i], Data: m.Data}
						}
					} else {
						receivers[m.Target.Index] <- tss.IncomingSend{Sender: pids[i], Data: m.Data}
					}
				case tss.CompleteMessage:
					results[i] = m.Data.(*keygen.KeyGenResult)
				case tss.ErrorMessage:
					mm := m
					errs[i] = &mm
					done <- i
					return
				case tss.QuitMessage:
					done <- i
					return
				}
			}
		}()

		go keygen.Keygen(params, emitters[i], receivers[i])
	}

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatalf("party did not terminate in time")
		}
	}

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("party %d halted with error code %s", i, errs[i].Code)
		}
		assert.NotNil(t, results[i], "party %d produced no result", i)
	}
	return results
}

func TestKeygenThreeOfThree(t *testing.T) {
	results := runKeygen(t, 3, 1, time.Millisecond, 10*time.Second)

	ySum := results[0].PublicKey
	for i := 1; i < len(results); i++ {
		assert.True(t, ySum.Equals(results[i].PublicKey), "all parties must agree on y_sum")
	}

	// reconstruct the secret from all three shares and check u*G == y_sum.
	shares := make(vss.Shares, len(results))
	for i, r := range results {
		shares[i] = &vss.Share{
			Threshold: r.Keystore.Threshold,
			ID:        r.Keystore.ShareID,
			Share:     r.Keystore.Xi,
		}
	}
	secret, err := shares.ReConstruct(crypto.EC())
	assert.NoError(t, err)
	reconstructed := crypto.ScalarBaseMult(crypto.EC(), secret)
	assert.True(t, reconstructed.Equals(ySum), "reconstructed secret must match y_sum")
}

func TestKeygenReconstructionIndependentOfSubset(t *testing.T) {
	results := runKeygen(t, 5, 2, time.Millisecond, 10*time.Second)
	ySum := results[0].PublicKey

	subsets := [][]int{{0, 1, 2}, {1, 3, 4}, {0, 2, 4}}
	for _, subset := range subsets {
		shares := make(vss.Shares, len(subset))
		for i, idx := range subset {
			ks := results[idx].Keystore
			shares[i] = &vss.Share{Threshold: ks.Threshold, ID: ks.ShareID, Share: ks.Xi}
		}
		secret, err := shares.ReConstruct(crypto.EC())
		assert.NoError(t, err)
		reconstructed := crypto.ScalarBaseMult(crypto.EC(), secret)
		assert.True(t, reconstructed.Equals(ySum), "subset %v must reconstruct the same secret", subset)
	}
}

func TestKeygenMinimumThreshold(t *testing.T) {
	results := runKeygen(t, 3, 1, time.Millisecond, 10*time.Second)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.NotNil(t, r.Keystore)
	}
}

func TestKeygenRoundTimeoutOnMissingPeer(t *testing.T) {
	n, threshold := 3, 1
	pids := generatePartyIDs(n)
	ctx := tss.NewPeerContext(pids)

	emitters := make([]chan tss.OutgoingMessage, n)
	receivers := make([]chan tss.IncomingMessage, n)
	for i := 0; i < n; i++ {
		emitters[i] = make(chan tss.OutgoingMessage, 64)
		receivers[i] = make(chan tss.IncomingMessage, 64)
	}

	errs := make([]*tss.ErrorMessage, n)
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		i := i
		params := tss.NewParameters(crypto.EC(), ctx, pids[i], n, threshold)
		params.SetCollectPolicy(5*time.Millisecond, 80*time.Millisecond)

		go func() {
			for msg := range emitters[i] {
				switch m := msg.(type) {
				case tss.SendMessage:
					// party 1's sends are silently dropped for the rest of the
					// session, simulating a peer that stops participating.
					if i == 1 {
						continue
					}
					if m.Target == nil {
						for j := 0; j < n; j++ {
							if j == i {
								continue
							}
							receivers[j] <- tss.IncomingSend{Sender: pids[i], Data: m.Data}
						}
					} else {
						receivers[m.Target.Index] <- tss.IncomingSend{Sender: pids[i], Data: m.Data}
					}
				case tss.ErrorMessage:
					mm := m
					errs[i] = &mm
					done <- i
					return
				case tss.QuitMessage:
					done <- i
					return
				case tss.CompleteMessage:
					// party 1 must never complete in this scenario
				}
			}
		}()

		go keygen.Keygen(params, emitters[i], receivers[i])
	}

	arrived := make(map[int]bool)
	deadline := time.After(5 * time.Second)
	for !arrived[0] || !arrived[2] {
		select {
		case i := <-done:
			arrived[i] = true
		case <-deadline:
			t.Fatalf("parties did not halt on missing peer in time")
		}
	}

	for i := 0; i < n; i++ {
		if i == 1 {
			continue
		}
		assert.NotNilf(t, errs[i], "party %d should halt on a missing peer", i)
		if errs[i] != nil {
			assert.Equal(t, tss.ErrHalted, errs[i].Code)
		}
	}
}

// TestKeygenHaltsOnTamperedVSSBroadcast corrupts party 1's round-4 Feldman
// VSS commitment vector in transit; every other party's round-5 VSS check
// against its already-received share must fail, and the halt must surface a
// diagnostic log naming the VSS check.
func TestKeygenHaltsOnTamperedVSSBroadcast(t *testing.T) {
	n, threshold := 3, 1
	pids := generatePartyIDs(n)
	ctx := tss.NewPeerContext(pids)
	ec := crypto.EC()

	emitters := make([]chan tss.OutgoingMessage, n)
	receivers := make([]chan tss.IncomingMessage, n)
	for i := 0; i < n; i++ {
		emitters[i] = make(chan tss.OutgoingMessage, 64)
		receivers[i] = make(chan tss.IncomingMessage, 64)
	}

	errs := make([]*tss.ErrorMessage, n)
	logs := make([]string, n)
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		i := i
		params := tss.NewParameters(ec, ctx, pids[i], n, threshold)
		params.SetCollectPolicy(5*time.Millisecond, 500*time.Millisecond)

		go func() {
			for msg := range emitters[i] {
				switch m := msg.(type) {
				case tss.SendMessage:
					data := m.Data
					// party 1's round-4 VSS broadcast is corrupted in transit:
					// the constant-term commitment is swapped for an unrelated point.
					if i == 1 {
						if r4, ok := data.(*keygen.Round4Message); ok {
							tampered := append(vss.Vs{}, r4.Commitments...)
							tampered[0] = crypto.ScalarBaseMult(ec, big.NewInt(999))
							data = &keygen.Round4Message{Commitments: tampered}
						}
					}
					if m.Target == nil {
						for j := 0; j < n; j++ {
							if j == i {
								continue
							}
							receivers[j] <- tss.IncomingSend{Sender: pids[i], Data: data}
						}
					} else {
						receivers[m.Target.Index] <- tss.IncomingSend{Sender: pids[i], Data: data}
					}
				case tss.LogMessage:
					logs[i] = m.Text
				case tss.ErrorMessage:
					mm := m
					errs[i] = &mm
					done <- i
					return
				case tss.QuitMessage:
					done <- i
					return
				case tss.CompleteMessage:
					// party 1 passes its own VSS check, but the others halt
					// before sending round 5, so it times out there instead.
				}
			}
		}()

		go keygen.Keygen(params, emitters[i], receivers[i])
	}

	arrived := make(map[int]bool)
	deadline := time.After(5 * time.Second)
	for !arrived[0] || !arrived[2] {
		select {
		case i := <-done:
			arrived[i] = true
		case <-deadline:
			t.Fatalf("parties did not halt on the tampered VSS broadcast in time")
		}
	}

	for _, i := range []int{0, 2} {
		assert.NotNilf(t, errs[i], "party %d should halt on party 1's tampered VSS broadcast", i)
		if errs[i] != nil {
			assert.Equal(t, tss.ErrHalted, errs[i].Code)
		}
		assert.Contains(t, strings.ToUpper(logs[i]), "VSS", "halt log for party %d must mention the VSS check", i)
	}
}
