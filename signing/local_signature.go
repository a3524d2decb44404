// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Phase 5 of GG18 signing: every co-signer proves, without revealing its
// partial signature s_i, that s_i is consistent with the jointly computed R
// and the public key, before any s_i is ever broadcast in the clear. This
// file implements that consistency check (phase5a/c/d in the GG18 paper's
// naming) and the final s-aggregation.
package signing

import (
	"crypto/elliptic"
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
	"github.com/keyshard/tss-party/crypto/schnorrZK"
)

// LocalSignature is this party's phase-5 contribution: its partial
// signature s_i plus the blinding material (l_i, rho_i) and the two points
// derived from them (V_i, A_i) used to prove s_i is well-formed before
// revealing it.
type LocalSignature struct {
	Digest *big.Int
	R      *big.Int // r, the x-coordinate of the jointly computed R
	SI     *big.Int
	LI     *big.Int
	RhoI   *big.Int
	VI     *crypto.ECPoint
	AI     *crypto.ECPoint
}

func genPoint(ec elliptic.Curve) *crypto.ECPoint {
	return crypto.NewECPointNoCurveCheck(ec, ec.Params().Gx, ec.Params().Gy)
}

// NewLocalSignature computes s_i = m*k_i + r*sigma_i and the accompanying
// blinded commitments, along with a HomoElGamal proof binding V_i to the
// pair (s_i, l_i) under bases (R, G).
func NewLocalSignature(ec elliptic.Curve, ki, digest, r, sigmaI *big.Int, R *crypto.ECPoint) (*LocalSignature, *schnorrZK.HomoElGamalProof, error) {
	modQ := common.ModInt(ec.Params().N)
	si := modQ.Add(modQ.Mul(digest, ki), modQ.Mul(r, sigmaI))

	li := common.GetRandomPositiveInt(ec.Params().N)
	rhoI := common.GetRandomPositiveInt(ec.Params().N)

	siR := R.SetCurve(ec).ScalarMult(si)
	liG := crypto.ScalarBaseMult(ec, li)
	vi, err := siR.Add(liG)
	if err != nil {
		return nil, nil, err
	}
	ai := crypto.ScalarBaseMult(ec, rhoI)

	proof, err := schnorrZK.NewHomoElGamalProof(si, li, R, genPoint(ec), vi)
	if err != nil {
		return nil, nil, err
	}

	return &LocalSignature{
		Digest: digest,
		R:      r,
		SI:     si,
		LI:     li,
		RhoI:   rhoI,
		VI:     vi,
		AI:     ai,
	}, proof, nil
}

// ComputeUV folds every co-signer's (V_j, A_j) (self included) into the two
// aggregate points required by phase 5C: V = Σ V_j - digest*G - r*Y, and
// A = Σ A_j. If V == 0 the joint computation of R or the s_i values is
// inconsistent and the session must abort.
func ComputeUV(ec elliptic.Curve, digest, r *big.Int, ySum *crypto.ECPoint, vs, as []*crypto.ECPoint) (V, A *crypto.ECPoint, err error) {
	for _, vi := range vs {
		if V == nil {
			V = vi
			continue
		}
		if V, err = V.Add(vi); err != nil {
			return nil, nil, err
		}
	}
	negDigestG := crypto.ScalarBaseMult(ec, digest).Neg()
	if V, err = V.Add(negDigestG); err != nil {
		return nil, nil, err
	}
	negRY := ySum.SetCurve(ec).ScalarMult(r).Neg()
	if V, err = V.Add(negRY); err != nil {
		return nil, nil, err
	}

	for _, ai := range as {
		if A == nil {
			A = ai
			continue
		}
		if A, err = A.Add(ai); err != nil {
			return nil, nil, err
		}
	}
	return V, A, nil
}

// Signature is the final, verifiable ECDSA signature produced by signing.
type Signature struct {
	R *big.Int
	S *big.Int
}

// OutputSignature sums every co-signer's partial s_i, canonicalizes to
// low-s, and verifies the result against the joint public key before
// returning it. A verification failure here means the multi-party
// aggregation was inconsistent and the session is fatally broken.
func OutputSignature(ec elliptic.Curve, digest, r *big.Int, sis []*big.Int, ySum *crypto.ECPoint) (*Signature, error) {
	modQ := common.ModInt(ec.Params().N)
	s := big.NewInt(0)
	for _, si := range sis {
		s = modQ.Add(s, si)
	}

	halfQ := new(big.Int).Rsh(ec.Params().N, 1)
	if s.Cmp(halfQ) > 0 {
		s = modQ.Sub(ec.Params().N, s)
	}

	if !ecdsa.Verify(ySum.ToECDSAPubKey(), digest.Bytes(), r, s) {
		return nil, errors.New("aggregated signature failed verification under the joint public key")
	}
	return &Signature{R: r, S: s}, nil
}
