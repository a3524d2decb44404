// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"crypto/elliptic"
	"math/big"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
	"github.com/keyshard/tss-party/keygen"
)

// SignKeys holds the ephemeral, per-session material this party contributes
// to one signing run: its Lagrange-weighted share w_i of the joint secret
// (restricted to the signer subset), and its random k_i/gamma_i nonces.
type SignKeys struct {
	Index  int // position within the signer subset
	W      *big.Int
	Ki     *big.Int
	GammaI *big.Int
	BigGammaI *crypto.ECPoint
}

// lagrangeCoeff computes the Lagrange coefficient at x=0 for the party
// identified by own, interpolated over the full signer set ids.
func lagrangeCoeff(ec elliptic.Curve, ids []*big.Int, own *big.Int) *big.Int {
	modQ := common.ModInt(ec.Params().N)
	coeff := big.NewInt(1)
	for _, id := range ids {
		if id.Cmp(own) == 0 {
			continue
		}
		num := id
		den := modQ.Sub(id, own)
		coeff = modQ.Mul(coeff, modQ.Mul(num, modQ.ModInverse(den)))
	}
	return coeff
}

// NewSignKeys derives this party's weighted share w_i and fresh per-session
// nonces from the DKG keystore and the chosen signer subset (global party
// indices, including self).
func NewSignKeys(ec elliptic.Curve, ks *keygen.Keystore, index int, signerIndexes []int) *SignKeys {
	ids := make([]*big.Int, len(signerIndexes))
	for i, gi := range signerIndexes {
		ids[i] = keygen.ShareIDOf(gi)
	}
	coeff := lagrangeCoeff(ec, ids, ks.ShareID)
	w := common.ModInt(ec.Params().N).Mul(ks.Xi, coeff)

	ki := common.GetRandomPositiveInt(ec.Params().N)
	gammaI := common.GetRandomPositiveInt(ec.Params().N)

	return &SignKeys{
		Index:     index,
		W:         w,
		Ki:        ki,
		GammaI:    gammaI,
		BigGammaI: crypto.ScalarBaseMult(ec, gammaI),
	}
}

// BigWj reconstructs the public point corresponding to every co-signer's
// weighted share, using the keystore's per-party public key shares (BigXj,
// computed during DKG) raised to that party's Lagrange coefficient over the
// same signer subset. Indexed by position within signerIndexes.
func BigWj(ec elliptic.Curve, ks *keygen.Keystore, signerIndexes []int) []*crypto.ECPoint {
	ids := make([]*big.Int, len(signerIndexes))
	for i, gi := range signerIndexes {
		ids[i] = keygen.ShareIDOf(gi)
	}
	out := make([]*crypto.ECPoint, len(signerIndexes))
	for pos, gi := range signerIndexes {
		coeff := lagrangeCoeff(ec, ids, ids[pos])
		out[pos] = ks.BigXj[gi].SetCurve(ec).ScalarMult(coeff)
	}
	return out
}
