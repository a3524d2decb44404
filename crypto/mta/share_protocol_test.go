// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mta

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
	"github.com/keyshard/tss-party/crypto/paillier"
)

// Using a modulus length of 2048 is recommended in the GG18 spec
const (
	testPaillierKeyLength = 2048
)

func genNTilde(t *testing.T, bits int) (NTilde, h1, h2 *big.Int) {
	primes := [2]*big.Int{common.GetRandomPrimeInt(bits), common.GetRandomPrimeInt(bits)}
	NTilde, h1, h2, err := crypto.GenerateNTildei(primes)
	assert.NoError(t, err)
	return
}

func TestShareProtocol(t *testing.T) {
	ec := crypto.EC()
	q := ec.Params().N

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sk, pk, err := paillier.GenerateKeyPair(ctx, testPaillierKeyLength)
	assert.NoError(t, err)

	a := common.GetRandomPositiveInt(q)
	b := common.GetRandomPositiveInt(q)

	NTildei, h1i, h2i := genNTilde(t, testSafePrimeBits)
	NTildej, h1j, h2j := genNTilde(t, testSafePrimeBits)

	cA, pf, err := AliceInit(ec, pk, a, NTildej, h1j, h2j)
	assert.NoError(t, err)

	beta, cB, betaPrm, pfB, err := BobMid(ec, pk, pf, b, cA, NTildei, h1i, h2i, NTildej, h1j, h2j)
	assert.NoError(t, err)
	assert.NotNil(t, beta)

	alpha, err := AliceEnd(ec, pk, pfB, h1i, h2i, cA, cB, NTildei, sk)
	assert.NoError(t, err)

	// expect: alpha = ab + betaPrm (mod q)
	aTimesB := new(big.Int).Mul(a, b)
	aTimesBPlusBeta := new(big.Int).Add(aTimesB, betaPrm)
	aTimesBPlusBetaModQ := new(big.Int).Mod(aTimesBPlusBeta, q)
	assert.Equal(t, 0, alpha.Cmp(aTimesBPlusBetaModQ))
}

func TestShareProtocolWC(t *testing.T) {
	ec := crypto.EC()
	q := ec.Params().N

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sk, pk, err := paillier.GenerateKeyPair(ctx, testPaillierKeyLength)
	assert.NoError(t, err)

	a := common.GetRandomPositiveInt(q)
	b := common.GetRandomPositiveInt(q)
	gB := crypto.ScalarBaseMult(ec, b)

	NTildei, h1i, h2i := genNTilde(t, testSafePrimeBits)
	NTildej, h1j, h2j := genNTilde(t, testSafePrimeBits)

	cA, pf, err := AliceInit(ec, pk, a, NTildej, h1j, h2j)
	assert.NoError(t, err)

	_, cB, betaPrm, pfB, err := BobMidWC(ec, pk, pf, b, cA, NTildei, h1i, h2i, NTildej, h1j, h2j, gB)
	assert.NoError(t, err)

	alpha, err := AliceEndWC(ec, pk, pfB, gB, cA, cB, NTildei, h1i, h2i, sk)
	assert.NoError(t, err)

	// expect: alpha = ab + betaPrm (mod q)
	aTimesB := new(big.Int).Mul(a, b)
	aTimesBPlusBeta := new(big.Int).Add(aTimesB, betaPrm)
	aTimesBPlusBetaModQ := new(big.Int).Mod(aTimesBPlusBeta, q)
	assert.Equal(t, 0, alpha.Cmp(aTimesBPlusBetaModQ))
}
