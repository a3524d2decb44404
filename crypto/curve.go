// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package crypto

import (
	"crypto/elliptic"
	"errors"

	s256k1 "github.com/btcsuite/btcd/btcec"
)

// ec is the elliptic curve shared by every party in a run. GG18 key
// generation and signing only ever operate over one curve at a time, so
// this mirrors the teacher's package-level curve rather than threading a
// curve argument through every call site.
var ec elliptic.Curve = s256k1.S256()

// EC returns the curve currently in use. The default is secp256k1.
func EC() elliptic.Curve {
	return ec
}

// SetCurve overrides the curve used for key generation and signing. Must be
// called, if at all, before any party is started.
func SetCurve(curve elliptic.Curve) {
	if curve == nil {
		panic(errors.New("SetCurve received a nil curve"))
	}
	ec = curve
}

// S256 returns the secp256k1 curve implementation.
func S256() elliptic.Curve {
	return s256k1.S256()
}
