// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Sigma-protocol proofs used by the DKG and signing drivers: a plain Schnorr
// proof of knowledge of a discrete log (GG18Spec Fig. 16), and a two-base
// extension of it used to bind a party's Phase 5 commitment to both the
// curve generator and the signature's R point (GG18Spec Fig. 18).
package schnorrZK

import (
	"errors"
	"math/big"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
)

type (
	// DLogProof is a Schnorr ZK proof of knowledge of x such that X = x*G.
	DLogProof struct {
		Alpha *crypto.ECPoint
		T     *big.Int
	}

	// HomoElGamalProof proves knowledge of (x, y) such that D = x*H + y*G,
	// without revealing either scalar. Used in signing round 5/6 to bind a
	// party's partial signature s_i and blinding factor l_i to V_i = s_i*R + l_i*G.
	HomoElGamalProof struct {
		A      *crypto.ECPoint
		Z1, Z2 *big.Int
	}
)

// NewDLogProof constructs a Schnorr ZK proof of knowledge of the discrete
// logarithm of X, i.e. x such that X = x*G.
func NewDLogProof(x *big.Int, X *crypto.ECPoint) (*DLogProof, error) {
	if x == nil || X == nil || !X.ValidateBasic() {
		return nil, errors.New("NewDLogProof received nil or invalid value(s)")
	}
	ec := crypto.EC()
	q := ec.Params().N
	g := crypto.NewECPointNoCurveCheck(ec, ec.Params().Gx, ec.Params().Gy)

	a := common.GetRandomPositiveInt(q)
	alpha := crypto.ScalarBaseMult(ec, a)

	var c *big.Int
	{
		cHash := common.SHA512_256i(X.X(), X.Y(), g.X(), g.Y(), alpha.X(), alpha.Y())
		c = common.RejectionSample(q, cHash)
	}
	t := new(big.Int).Mul(c, x)
	t = common.ModInt(q).Add(a, t)

	return &DLogProof{Alpha: alpha, T: t}, nil
}

// Verify checks a DLogProof against the public point X.
func (pf *DLogProof) Verify(X *crypto.ECPoint) bool {
	if pf == nil || !pf.ValidateBasic() || X == nil {
		return false
	}
	ec := crypto.EC()
	q := ec.Params().N
	g := crypto.NewECPointNoCurveCheck(ec, ec.Params().Gx, ec.Params().Gy)

	var c *big.Int
	{
		cHash := common.SHA512_256i(X.X(), X.Y(), g.X(), g.Y(), pf.Alpha.X(), pf.Alpha.Y())
		c = common.RejectionSample(q, cHash)
	}
	tG := crypto.ScalarBaseMult(ec, pf.T)
	Xc := X.ScalarMult(c)
	aXc, err := pf.Alpha.Add(Xc)
	if err != nil {
		return false
	}
	return aXc.Equals(tG)
}

func (pf *DLogProof) ValidateBasic() bool {
	return pf != nil && pf.T != nil && pf.Alpha != nil && pf.Alpha.ValidateBasic()
}

// NewHomoElGamalProof constructs a proof of knowledge of (x, y) such that
// D = x*H + y*G.
func NewHomoElGamalProof(x, y *big.Int, H, G, D *crypto.ECPoint) (*HomoElGamalProof, error) {
	if x == nil || y == nil || H == nil || G == nil || D == nil {
		return nil, errors.New("NewHomoElGamalProof received nil value(s)")
	}
	ec := crypto.EC()
	q := ec.Params().N

	a := common.GetRandomPositiveInt(q)
	b := common.GetRandomPositiveInt(q)

	aH := H.SetCurve(ec).ScalarMult(a)
	bG := crypto.ScalarBaseMult(ec, b)
	A, err := aH.Add(bG)
	if err != nil {
		return nil, err
	}

	var c *big.Int
	{
		cHash := common.SHA512_256i(H.X(), H.Y(), G.X(), G.Y(), D.X(), D.Y(), A.X(), A.Y())
		c = common.RejectionSample(q, cHash)
	}
	modQ := common.ModInt(q)
	z1 := modQ.Add(a, modQ.Mul(c, x))
	z2 := modQ.Add(b, modQ.Mul(c, y))

	return &HomoElGamalProof{A: A, Z1: z1, Z2: z2}, nil
}

// Verify checks a HomoElGamalProof against bases H, G and statement D.
func (pf *HomoElGamalProof) Verify(H, G, D *crypto.ECPoint) bool {
	if pf == nil || !pf.ValidateBasic() || H == nil || G == nil || D == nil {
		return false
	}
	ec := crypto.EC()
	q := ec.Params().N

	var c *big.Int
	{
		cHash := common.SHA512_256i(H.X(), H.Y(), G.X(), G.Y(), D.X(), D.Y(), pf.A.X(), pf.A.Y())
		c = common.RejectionSample(q, cHash)
	}

	z1H := H.SetCurve(ec).ScalarMult(pf.Z1)
	z2G := crypto.ScalarBaseMult(ec, pf.Z2)
	lhs, err := z1H.Add(z2G)
	if err != nil {
		return false
	}

	cD := D.SetCurve(ec).ScalarMult(c)
	rhs, err := pf.A.Add(cD)
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}

func (pf *HomoElGamalProof) ValidateBasic() bool {
	return pf != nil && pf.A != nil && pf.A.ValidateBasic() && pf.Z1 != nil && pf.Z2 != nil
}
