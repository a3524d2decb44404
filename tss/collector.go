// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import (
	"errors"
	"fmt"
	"time"
)

var (
	errDisconnected = errors.New("collect: receiver disconnected")
	errTimeout      = errors.New("collect: timed out waiting for all parties")
)

func errUnexpectedData(sender *PartyID) error {
	return fmt.Errorf("collect: unexpected message tag from party %s", sender)
}

// Project extracts a round's expected body from a tagged MessageData, or
// reports that the tag doesn't belong to this round. One implementation
// exists per round; the Sign round 3/9 pair share a single implementation
// since both carry the same scalar body under distinct tags.
type Project func(data MessageData) (interface{}, bool)

// PosOf maps a sender's PartyID to its slot in the k-sized collection
// vector. For DKG this is the sender's global index; for signing it is the
// sender's position within the signer subset.
type PosOf func(sender *PartyID) (pos int, ok bool)

// Collect fills a k-slot vector for one round: slot `selfPos` is seeded
// with `mine`, then the receiver is polled until every other slot has been
// filled with a correctly-projected payload, the poll budget is exhausted,
// or the channel closes.
//
// A duplicate delivery for an already-filled slot overwrites it; the
// protocol only ever resends identical data for a given round, so this is
// harmless and is not treated as an error.
func Collect(
	receiver <-chan IncomingMessage,
	selfPos int,
	mine interface{},
	k int,
	posOf PosOf,
	project Project,
	pollInterval, timeout time.Duration,
) ([]interface{}, ErrorCode, error) {
	slots := make([]interface{}, k)
	slots[selfPos] = mine

	filled := func() bool {
		for _, s := range slots {
			if s == nil {
				return false
			}
		}
		return true
	}

	remaining := timeout
	for !filled() {
		drained := false
		for !drained {
			select {
			case msg, ok := <-receiver:
				if !ok {
					return nil, ErrCollectDisconnected, errDisconnected
				}
				send, ok := msg.(IncomingSend)
				if !ok {
					continue
				}
				pos, ok := posOf(send.Sender)
				if !ok {
					continue // not a party we're collecting from this round
				}
				body, ok := project(send.Data)
				if !ok {
					return nil, ErrCollectUnexpectedData, errUnexpectedData(send.Sender)
				}
				slots[pos] = body
			default:
				drained = true
			}
		}
		if filled() {
			break
		}
		if remaining <= 0 {
			return nil, ErrCollectTimeout, errTimeout
		}
		time.Sleep(pollInterval)
		remaining -= pollInterval
	}
	return slots, 0, nil
}
