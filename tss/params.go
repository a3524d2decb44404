// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import (
	"crypto/elliptic"
	"time"
)

// Parameters sizes a single party's view of a session: the curve in use,
// its position in the cohort, and the collector's liveness policy.
type Parameters struct {
	ec         elliptic.Curve
	parties    *PeerContext
	partyID    *PartyID
	partyCount int
	threshold  int

	collectPoll    time.Duration
	collectTimeout time.Duration
}

const (
	DefaultCollectPollInterval = 100 * time.Millisecond
	DefaultCollectTimeout      = 3000 * time.Millisecond
)

func NewParameters(ec elliptic.Curve, ctx *PeerContext, partyID *PartyID, partyCount, threshold int) *Parameters {
	return &Parameters{
		ec:             ec,
		parties:        ctx,
		partyID:        partyID,
		partyCount:     partyCount,
		threshold:      threshold,
		collectPoll:    DefaultCollectPollInterval,
		collectTimeout: DefaultCollectTimeout,
	}
}

func (params *Parameters) EC() elliptic.Curve     { return params.ec }
func (params *Parameters) Parties() *PeerContext  { return params.parties }
func (params *Parameters) PartyID() *PartyID      { return params.partyID }
func (params *Parameters) PartyCount() int        { return params.partyCount }
func (params *Parameters) Threshold() int         { return params.threshold }
func (params *Parameters) CollectPoll() time.Duration    { return params.collectPoll }
func (params *Parameters) CollectTimeout() time.Duration { return params.collectTimeout }

// SetCollectPolicy overrides the collector's poll interval and per-round
// timeout. Exposed so tests can run the liveness bound down to something
// sub-second instead of waiting out the real default.
func (params *Parameters) SetCollectPolicy(poll, timeout time.Duration) {
	params.collectPoll = poll
	params.collectTimeout = timeout
}
