// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
	cmt "github.com/keyshard/tss-party/crypto/commitments"
	"github.com/keyshard/tss-party/crypto/paillier"
	"github.com/keyshard/tss-party/crypto/schnorrZK"
	"github.com/keyshard/tss-party/crypto/vss"
	"github.com/keyshard/tss-party/tss"
)

const (
	paillierKeyBits  = 2048
	pedersenPrimeLen = paillierKeyBits / 2
	paillierGenTimeout = 5 * time.Minute
)

// ShareIDOf returns the Shamir x-coordinate assigned to the party at the
// given global index. IDs run 1..n so that 0, which Feldman VSS forbids as
// a share identifier, is never assigned.
func ShareIDOf(index int) *big.Int {
	return big.NewInt(int64(index + 1))
}

func posOfIndex(n int) tss.PosOf {
	return func(sender *tss.PartyID) (int, bool) {
		if sender == nil || sender.Index < 0 || sender.Index >= n {
			return 0, false
		}
		return sender.Index, true
	}
}

// Keygen drives one party through the five-round DKG protocol, reporting
// its outcome on emitter: Complete(*KeyGenResult) on success, or a Log
// followed by Error(Halted) on the first verification or liveness failure.
func Keygen(params *tss.Parameters, emitter chan<- tss.OutgoingMessage, receiver <-chan tss.IncomingMessage) {
	ec := params.EC()
	self := params.PartyID()
	n := params.PartyCount()
	threshold := params.Threshold()
	parties := params.Parties().Parties()
	posOf := posOfIndex(n)
	poll, timeout := params.CollectPoll(), params.CollectTimeout()

	halt := func(round int, err error, code tss.ErrorCode, culprits ...*tss.PartyID) {
		tss.Halt(emitter, tss.NewError(err, round, self, code, culprits...))
	}

	// ----- Round 1: Paillier keypair + correct-key proof, Pedersen params, commit to y_i.

	ui := common.GetRandomPositiveInt(ec.Params().N)
	yi := crypto.ScalarBaseMult(ec, ui)

	ctx, cancel := context.WithTimeout(context.Background(), paillierGenTimeout)
	defer cancel()

	paillierSK, paillierPK, err := paillier.GenerateKeyPair(ctx, paillierKeyBits)
	if err != nil {
		halt(1, err, tss.ErrHalted)
		return
	}

	pedersenPrimes, err := common.GetRandomPrimesConcurrent(ctx, pedersenPrimeLen, 2, 0)
	if err != nil {
		halt(1, err, tss.ErrHalted)
		return
	}
	NTildei, h1i, h2i, err := crypto.GenerateNTildei([2]*big.Int{pedersenPrimes[0], pedersenPrimes[1]})
	if err != nil {
		halt(1, err, tss.ErrHalted)
		return
	}

	// The correct-key proof is bound to this party's public index and its
	// y_i, so verifiers check it in round 3, once round 2 has opened y_i.
	paillierProof := paillierSK.Proof(ShareIDOf(self.Index), yi)

	commitment := cmt.NewHashCommitment(yi.X(), yi.Y())
	round1Mine := &Round1Message{
		Commitment:    commitment.C,
		PaillierPK:    paillierPK,
		PaillierProof: paillierProof,
		NTilde:        NTildei,
		H1:            h1i,
		H2:            h2i,
	}
	emitter <- tss.Broadcast(self, round1Mine)

	round1Slots, code, err := tss.Collect(receiver, self.Index, round1Mine, n, posOf, projectRound1, poll, timeout)
	if err != nil {
		halt(1, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	round1 := make([]*Round1Message, n)
	for i, s := range round1Slots {
		round1[i] = s.(*Round1Message)
	}

	// ----- Round 2: open the commitment to y_i, derive the joint public key and pairwise ECDH keys.

	round2Mine := &Round2Message{DeCommitment: commitment.D}
	emitter <- tss.Broadcast(self, round2Mine)

	round2Slots, code, err := tss.Collect(receiver, self.Index, round2Mine, n, posOf, projectRound2, poll, timeout)
	if err != nil {
		halt(2, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	yj := make([]*crypto.ECPoint, n)
	var ySum *crypto.ECPoint
	for j := 0; j < n; j++ {
		m := round2Slots[j].(*Round2Message)
		ok, d := (&cmt.HashCommitDecommit{C: round1[j].Commitment, D: m.DeCommitment}).DeCommit()
		if !ok || len(d) != 2 {
			halt(2, fmt.Errorf("commitment check failed for party %d", j), tss.ErrHalted, parties[j])
			return
		}
		pt, err := crypto.NewECPoint(ec, d[0], d[1])
		if err != nil {
			halt(2, err, tss.ErrHalted, parties[j])
			return
		}
		yj[j] = pt
		if ySum == nil {
			ySum = pt
		} else if ySum, err = ySum.Add(pt); err != nil {
			halt(2, err, tss.ErrHalted)
			return
		}
	}

	encKeys := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		if j == self.Index {
			continue
		}
		encKeys[j] = yj[j].ScalarMult(ui).X()
	}

	// ----- Round 3: verify peers' correct-key proofs, deal Feldman VSS shares pairwise.

	for j := 0; j < n; j++ {
		ok, err := round1[j].PaillierProof.Verify(round1[j].PaillierPK.N, ShareIDOf(j), yj[j])
		if err != nil || !ok {
			halt(3, fmt.Errorf("paillier correct-key proof failed for party %d", j), tss.ErrHalted, parties[j])
			return
		}
	}

	ids := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		ids[j] = ShareIDOf(j)
	}
	vs, shares, err := vss.Create(ec, threshold, ui, ids)
	if err != nil {
		halt(3, err, tss.ErrHalted)
		return
	}

	for j := 0; j < n; j++ {
		if j == self.Index {
			continue
		}
		nonce, ciphertext, err := sealShare(encKeys[j], shares[j].Share.Bytes())
		if err != nil {
			halt(3, err, tss.ErrHalted)
			return
		}
		emitter <- tss.Unicast(self, parties[j], &Round3Message{Nonce: nonce, Ciphertext: ciphertext})
	}

	// Own slot is a structural placeholder: this party never unicasts a
	// share to itself, and the slot is discarded once collection completes.
	round3Mine := &Round3Message{}
	round3Slots, code, err := tss.Collect(receiver, self.Index, round3Mine, n, posOf, projectRound3, poll, timeout)
	if err != nil {
		halt(3, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	partyShares := make([]*big.Int, n)
	partyShares[self.Index] = shares[self.Index].Share
	for j := 0; j < n; j++ {
		if j == self.Index {
			continue
		}
		m := round3Slots[j].(*Round3Message)
		plain, err := openShare(encKeys[j], m.Nonce, m.Ciphertext)
		if err != nil {
			halt(3, fmt.Errorf("share decrypt failed from party %d: %v", j, err), tss.ErrHalted, parties[j])
			return
		}
		partyShares[j] = new(big.Int).SetBytes(plain)
	}

	// ----- Round 4: broadcast Feldman VSS commitment vectors.

	round4Mine := &Round4Message{Commitments: vs}
	emitter <- tss.Broadcast(self, round4Mine)

	round4Slots, code, err := tss.Collect(receiver, self.Index, round4Mine, n, posOf, projectRound4, poll, timeout)
	if err != nil {
		halt(4, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	vssCommitments := make([]vss.Vs, n)
	for i, s := range round4Slots {
		vssCommitments[i] = s.(*Round4Message).Commitments
	}

	// ----- Round 5: verify received shares against the commitments, prove knowledge of the combined share.

	myShareID := ShareIDOf(self.Index)
	modQ := common.ModInt(ec.Params().N)
	xi := big.NewInt(0)
	for j := 0; j < n; j++ {
		share := &vss.Share{Threshold: threshold, ID: myShareID, Share: partyShares[j]}
		if !share.Verify(ec, threshold, vssCommitments[j]) {
			halt(5, fmt.Errorf("VSS check failed for dealer %d", j), tss.ErrHalted, parties[j])
			return
		}
		xi = modQ.Add(xi, partyShares[j])
	}

	bigXj := make([]*crypto.ECPoint, n)
	for j := 0; j < n; j++ {
		var sum *crypto.ECPoint
		id := ShareIDOf(j)
		for k := 0; k < n; k++ {
			pt, err := vssCommitments[k].Evaluate(ec, threshold, id)
			if err != nil {
				halt(5, err, tss.ErrHalted)
				return
			}
			if sum == nil {
				sum = pt
			} else if sum, err = sum.Add(pt); err != nil {
				halt(5, err, tss.ErrHalted)
				return
			}
		}
		bigXj[j] = sum
	}

	myBigX := crypto.ScalarBaseMult(ec, xi)
	if !myBigX.Equals(bigXj[self.Index]) {
		halt(5, errors.New("reconstructed share does not match its own public commitment"), tss.ErrHalted)
		return
	}

	dlogProof, err := schnorrZK.NewDLogProof(xi, myBigX)
	if err != nil {
		halt(5, err, tss.ErrHalted)
		return
	}

	round5Mine := &Round5Message{Proof: dlogProof}
	emitter <- tss.Broadcast(self, round5Mine)

	round5Slots, code, err := tss.Collect(receiver, self.Index, round5Mine, n, posOf, projectRound5, poll, timeout)
	if err != nil {
		halt(5, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	for j := 0; j < n; j++ {
		m := round5Slots[j].(*Round5Message)
		if !m.Proof.Verify(bigXj[j]) {
			halt(5, fmt.Errorf("DLog proof of knowledge failed for party %d", j), tss.ErrHalted, parties[j])
			return
		}
	}

	paillierPKs := make([]*paillier.PublicKey, n)
	ntildej, h1j, h2j := make([]*big.Int, n), make([]*big.Int, n), make([]*big.Int, n)
	for j := 0; j < n; j++ {
		paillierPKs[j] = round1[j].PaillierPK
		ntildej[j] = round1[j].NTilde
		h1j[j] = round1[j].H1
		h2j[j] = round1[j].H2
	}

	keystore := &Keystore{
		Version:        KeystoreVersion,
		PartyID:        self,
		PartyCount:     n,
		Threshold:      threshold,
		Xi:             xi,
		ShareID:        myShareID,
		PaillierSK:     paillierSK,
		PaillierPKs:    paillierPKs,
		NTildej:        ntildej,
		H1j:            h1j,
		H2j:            h2j,
		VssCommitments: vssCommitments,
		BigXj:          bigXj,
		ECDSAPub:       ySum,
	}

	tss.Succeed(emitter, &KeyGenResult{Keystore: keystore, PublicKey: ySum})
}
