// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"math/big"

	"github.com/keyshard/tss-party/crypto"
	"github.com/keyshard/tss-party/crypto/paillier"
	"github.com/keyshard/tss-party/crypto/vss"
	"github.com/keyshard/tss-party/tss"
)

// KeystoreVersion is bumped whenever the field graph below changes shape,
// so a persisted Keystore can be rejected rather than misread.
const KeystoreVersion = 1

// Keystore is the durable artifact of a completed DKG session. It is only
// ever constructed once every DKG check (Paillier correctness in round 3,
// VSS consistency and DLog PoK in round 5) has passed; nothing before that
// point is surfaced outward.
type Keystore struct {
	Version    int
	PartyID    *tss.PartyID
	PartyCount int
	Threshold  int

	// Xi is this party's share of the joint secret scalar. ShareID is the
	// Shamir x-coordinate it was evaluated at (never 0).
	Xi      *big.Int
	ShareID *big.Int

	PaillierSK *paillier.PrivateKey
	// indexed by party position, this party's slot included
	PaillierPKs []*paillier.PublicKey

	// NTildej/H1j/H2j are every party's Pedersen range-proof parameters,
	// indexed by party position. Signing's MtA sub-protocol consumes these.
	NTildej []*big.Int
	H1j     []*big.Int
	H2j     []*big.Int

	// VssCommitments holds every party's Feldman commitment vector from
	// round 4, indexed by party position. BigXj is each party's public key
	// share, derived from VssCommitments once all of them are known.
	VssCommitments []vss.Vs
	BigXj          []*crypto.ECPoint

	// ECDSAPub is the joint public key y_sum = sum_j y_j.
	ECDSAPub *crypto.ECPoint
}

func (ks *Keystore) PublicKey() *crypto.ECPoint { return ks.ECDSAPub }

// KeyGenResult is the artifact reported via Complete on a successful session.
type KeyGenResult struct {
	Keystore  *Keystore
	PublicKey *crypto.ECPoint
}
