// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/keyshard/tss-party/common"
	"github.com/keyshard/tss-party/crypto"
	cmt "github.com/keyshard/tss-party/crypto/commitments"
	"github.com/keyshard/tss-party/crypto/mta"
	"github.com/keyshard/tss-party/keygen"
	"github.com/keyshard/tss-party/tss"
)

// SignResult is the artifact reported via Complete on a successful signing
// session.
type SignResult struct {
	Signature *Signature
}

func posOfSigners(signerIndexes []int) tss.PosOf {
	return func(sender *tss.PartyID) (int, bool) {
		if sender == nil {
			return 0, false
		}
		for pos, gi := range signerIndexes {
			if gi == sender.Index {
				return pos, true
			}
		}
		return 0, false
	}
}

func posOfSigner(signerIndexes []int, self int) (int, bool) {
	for pos, gi := range signerIndexes {
		if gi == self {
			return pos, true
		}
	}
	return 0, false
}

// Sign drives one party through the nine-round signing protocol over a
// subset of the DKG cohort identified by signerIndexes (global party
// indices, sorted, length t+1, self included). digest is the big-endian
// integer representation of the message hash to be signed.
func Sign(params *tss.Parameters, keystore *keygen.Keystore, digest *big.Int, signerIndexes []int, emitter chan<- tss.OutgoingMessage, receiver <-chan tss.IncomingMessage) {
	ec := params.EC()
	self := params.PartyID()
	k := len(signerIndexes)
	parties := params.Parties().Parties()
	posOf := posOfSigners(signerIndexes)
	poll, timeout := params.CollectPoll(), params.CollectTimeout()

	halt := func(round int, err error, code tss.ErrorCode, culprits ...*tss.PartyID) {
		tss.Halt(emitter, tss.NewError(err, round, self, code, culprits...))
	}

	pos, ok := posOfSigner(signerIndexes, self.Index)
	if !ok {
		halt(0, errors.New("this party is not a member of the signer subset"), tss.ErrHalted)
		return
	}

	signKeys := NewSignKeys(ec, keystore, pos, signerIndexes)
	bigWj := BigWj(ec, keystore, signerIndexes)

	// ----- Round 1: commit to Gamma_i, broadcast the MtA initiator ciphertext for k_i.

	gammaCommitment := cmt.NewHashCommitment(signKeys.BigGammaI.X(), signKeys.BigGammaI.Y())

	myPK := keystore.PaillierPKs[self.Index]
	cki, rki, err := myPK.EncryptAndReturnRandomness(signKeys.Ki)
	if err != nil {
		halt(1, err, tss.ErrHalted)
		return
	}

	proofs := make([]*mta.RangeProofAlice, k)
	for p, gi := range signerIndexes {
		if p == pos {
			continue
		}
		pf, err := mta.ProveRangeAlice(ec, myPK, cki, keystore.NTildej[gi], keystore.H1j[gi], keystore.H2j[gi], signKeys.Ki, rki)
		if err != nil {
			halt(1, err, tss.ErrHalted)
			return
		}
		proofs[p] = pf
	}

	round1Mine := &Round1Message{Commitment: gammaCommitment.C, CKI: cki, Proofs: proofs}
	emitter <- tss.Broadcast(self, round1Mine)

	round1Slots, code, err := tss.Collect(receiver, pos, round1Mine, k, posOf, projectRound1, poll, timeout)
	if err != nil {
		halt(1, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	round1 := make([]*Round1Message, k)
	for p, s := range round1Slots {
		round1[p] = s.(*Round1Message)
	}

	// ----- Round 2: MtA responder ciphertexts for gamma_i and w_i, unicast to each co-signer.

	betaGamma := make([]*big.Int, k)
	betaW := make([]*big.Int, k)
	for p, gi := range signerIndexes {
		if p == pos {
			continue
		}
		peerPK := keystore.PaillierPKs[gi]
		pf := round1[p].Proofs[pos]

		beta, cGamma, _, piGamma, err := mta.BobMid(ec, peerPK, pf, signKeys.GammaI, round1[p].CKI,
			keystore.NTildej[gi], keystore.H1j[gi], keystore.H2j[gi],
			keystore.NTildej[self.Index], keystore.H1j[self.Index], keystore.H2j[self.Index])
		if err != nil {
			halt(2, err, tss.ErrHalted, parties[gi])
			return
		}
		betaGamma[p] = beta

		betaWi, cW, _, piW, err := mta.BobMidWC(ec, peerPK, pf, signKeys.W, round1[p].CKI,
			keystore.NTildej[gi], keystore.H1j[gi], keystore.H2j[gi],
			keystore.NTildej[self.Index], keystore.H1j[self.Index], keystore.H2j[self.Index],
			bigWj[pos])
		if err != nil {
			halt(2, err, tss.ErrHalted, parties[gi])
			return
		}
		betaW[p] = betaWi

		emitter <- tss.Unicast(self, parties[gi], &Round2Message{CGamma: cGamma, PiGamma: piGamma, CW: cW, PiW: piW})
	}

	round2Mine := &Round2Message{}
	round2Slots, code, err := tss.Collect(receiver, pos, round2Mine, k, posOf, projectRound2, poll, timeout)
	if err != nil {
		halt(2, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	modQ := common.ModInt(ec.Params().N)
	deltaI := modQ.Mul(signKeys.Ki, signKeys.GammaI)
	sigmaI := modQ.Mul(signKeys.Ki, signKeys.W)
	for p, gi := range signerIndexes {
		if p == pos {
			continue
		}
		m := round2Slots[p].(*Round2Message)

		alphaGamma, err := mta.AliceEnd(ec, myPK, m.PiGamma, keystore.H1j[self.Index], keystore.H2j[self.Index], cki, m.CGamma, keystore.NTildej[self.Index], keystore.PaillierSK)
		if err != nil {
			halt(2, fmt.Errorf("gamma MtA check failed from party %d: %v", gi, err), tss.ErrHalted, parties[gi])
			return
		}
		alphaW, err := mta.AliceEndWC(ec, myPK, m.PiW, bigWj[p], cki, m.CW, keystore.NTildej[self.Index], keystore.H1j[self.Index], keystore.H2j[self.Index], keystore.PaillierSK)
		if err != nil {
			halt(2, fmt.Errorf("w MtA check failed from party %d: %v", gi, err), tss.ErrHalted, parties[gi])
			return
		}

		deltaI = modQ.Add(deltaI, modQ.Add(alphaGamma, betaGamma[p]))
		sigmaI = modQ.Add(sigmaI, modQ.Add(alphaW, betaW[p]))
	}

	// ----- Round 3: broadcast delta_i, reconstruct delta = Σ delta_j and its inverse.

	round3Mine := &Round3Message{Delta: deltaI}
	emitter <- tss.Broadcast(self, round3Mine)

	round3Slots, code, err := tss.Collect(receiver, pos, deltaI, k, posOf, projectScalar(tss.SignRound3), poll, timeout)
	if err != nil {
		halt(3, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	deltaSum := big.NewInt(0)
	for _, s := range round3Slots {
		deltaSum = modQ.Add(deltaSum, s.(*big.Int))
	}
	deltaInv := modQ.ModInverse(deltaSum)

	// ----- Round 4: decommit Gamma_i, reconstruct R = (Σ Gamma_j)^(delta^-1).

	round4Mine := &Round4Message{DeCommitment: gammaCommitment.D}
	emitter <- tss.Broadcast(self, round4Mine)

	round4Slots, code, err := tss.Collect(receiver, pos, round4Mine, k, posOf, projectRound4, poll, timeout)
	if err != nil {
		halt(4, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	var gammaSum *crypto.ECPoint
	for p, gi := range signerIndexes {
		m := round4Slots[p].(*Round4Message)
		ok, d := (&cmt.HashCommitDecommit{C: round1[p].Commitment, D: m.DeCommitment}).DeCommit()
		if !ok || len(d) != 2 {
			halt(4, fmt.Errorf("Gamma commitment check failed for party %d", gi), tss.ErrHalted, parties[gi])
			return
		}
		pt, err := crypto.NewECPoint(ec, d[0], d[1])
		if err != nil {
			halt(4, err, tss.ErrHalted, parties[gi])
			return
		}
		if gammaSum == nil {
			gammaSum = pt
		} else if gammaSum, err = gammaSum.Add(pt); err != nil {
			halt(4, err, tss.ErrHalted)
			return
		}
	}
	R := gammaSum.ScalarMult(deltaInv)
	r := new(big.Int).Mod(R.X(), ec.Params().N)

	// ----- Round 5: phase5A, commit to (V_i, A_i).

	local, helProof, err := NewLocalSignature(ec, signKeys.Ki, digest, r, sigmaI, R)
	if err != nil {
		halt(5, err, tss.ErrHalted)
		return
	}
	commitment5a := cmt.NewHashCommitment(local.VI.X(), local.VI.Y(), local.AI.X(), local.AI.Y())

	round5Mine := &Round5Message{Commitment: commitment5a.C}
	emitter <- tss.Broadcast(self, round5Mine)

	round5Slots, code, err := tss.Collect(receiver, pos, round5Mine, k, posOf, projectRound5, poll, timeout)
	if err != nil {
		halt(5, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	round5 := make([]*Round5Message, k)
	for p, s := range round5Slots {
		round5[p] = s.(*Round5Message)
	}

	// ----- Round 6: decommit (V_i, A_i) with the HomoElGamal proof.

	round6Mine := &Round6Message{DeCommitment: commitment5a.D, Proof: helProof}
	emitter <- tss.Broadcast(self, round6Mine)

	round6Slots, code, err := tss.Collect(receiver, pos, round6Mine, k, posOf, projectRound6, poll, timeout)
	if err != nil {
		halt(6, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	vs := make([]*crypto.ECPoint, k)
	as := make([]*crypto.ECPoint, k)
	for p, gi := range signerIndexes {
		m := round6Slots[p].(*Round6Message)
		ok, d := (&cmt.HashCommitDecommit{C: round5[p].Commitment, D: m.DeCommitment}).DeCommit()
		if !ok || len(d) != 4 {
			halt(6, fmt.Errorf("phase5A commitment check failed for party %d", gi), tss.ErrHalted, parties[gi])
			return
		}
		vi, err := crypto.NewECPoint(ec, d[0], d[1])
		if err != nil {
			halt(6, err, tss.ErrHalted, parties[gi])
			return
		}
		ai, err := crypto.NewECPoint(ec, d[2], d[3])
		if err != nil {
			halt(6, err, tss.ErrHalted, parties[gi])
			return
		}
		if !m.Proof.Verify(R, genPoint(ec), vi) {
			halt(6, fmt.Errorf("HomoElGamal proof failed for party %d", gi), tss.ErrHalted, parties[gi])
			return
		}
		vs[p] = vi
		as[p] = ai
	}

	V, A, err := ComputeUV(ec, digest, r, keystore.ECDSAPub, vs, as)
	if err != nil {
		halt(6, err, tss.ErrHalted)
		return
	}

	// ----- Round 7: phase5C, commit to (U_i, T_i).

	ui := V.ScalarMult(local.RhoI)
	ti := A.ScalarMult(local.LI)
	commitment5c := cmt.NewHashCommitment(ui.X(), ui.Y(), ti.X(), ti.Y())

	round7Mine := &Round7Message{Commitment: commitment5c.C}
	emitter <- tss.Broadcast(self, round7Mine)

	round7Slots, code, err := tss.Collect(receiver, pos, round7Mine, k, posOf, projectRound7, poll, timeout)
	if err != nil {
		halt(7, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	round7 := make([]*Round7Message, k)
	for p, s := range round7Slots {
		round7[p] = s.(*Round7Message)
	}

	// ----- Round 8: decommit (U_i, T_i); every party checks Σ U_j == Σ T_j.

	round8Mine := &Round8Message{DeCommitment: commitment5c.D}
	emitter <- tss.Broadcast(self, round8Mine)

	round8Slots, code, err := tss.Collect(receiver, pos, round8Mine, k, posOf, projectRound8, poll, timeout)
	if err != nil {
		halt(8, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}

	var uSum, tSum *crypto.ECPoint
	for p, gi := range signerIndexes {
		m := round8Slots[p].(*Round8Message)
		ok, d := (&cmt.HashCommitDecommit{C: round7[p].Commitment, D: m.DeCommitment}).DeCommit()
		if !ok || len(d) != 4 {
			halt(8, fmt.Errorf("phase5C commitment check failed for party %d", gi), tss.ErrHalted, parties[gi])
			return
		}
		uj, err := crypto.NewECPoint(ec, d[0], d[1])
		if err != nil {
			halt(8, err, tss.ErrHalted, parties[gi])
			return
		}
		tj, err := crypto.NewECPoint(ec, d[2], d[3])
		if err != nil {
			halt(8, err, tss.ErrHalted, parties[gi])
			return
		}
		if uSum == nil {
			uSum, tSum = uj, tj
		} else {
			if uSum, err = uSum.Add(uj); err != nil {
				halt(8, err, tss.ErrHalted)
				return
			}
			if tSum, err = tSum.Add(tj); err != nil {
				halt(8, err, tss.ErrHalted)
				return
			}
		}
	}
	if !uSum.Equals(tSum) {
		halt(8, errors.New("phase5C consistency check failed: Σ U_j != Σ T_j"), tss.ErrHalted)
		return
	}

	// ----- Round 9: broadcast s_i, aggregate and verify the final signature.

	round9Mine := &Round9Message{S: local.SI}
	emitter <- tss.Broadcast(self, round9Mine)

	round9Slots, code, err := tss.Collect(receiver, pos, local.SI, k, posOf, projectScalar(tss.SignRound9), poll, timeout)
	if err != nil {
		halt(9, fmt.Errorf("%s: %v", code, err), tss.ErrHalted)
		return
	}
	sis := make([]*big.Int, k)
	for p, s := range round9Slots {
		sis[p] = s.(*big.Int)
	}

	sig, err := OutputSignature(ec, digest, r, sis, keystore.ECDSAPub)
	if err != nil {
		halt(9, err, tss.ErrHalted)
		return
	}

	tss.Succeed(emitter, &SignResult{Signature: sig})
}
