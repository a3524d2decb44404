// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"math/big"

	cmt "github.com/keyshard/tss-party/crypto/commitments"
	"github.com/keyshard/tss-party/crypto/paillier"
	"github.com/keyshard/tss-party/crypto/schnorrZK"
	"github.com/keyshard/tss-party/crypto/vss"
	"github.com/keyshard/tss-party/tss"
)

var (
	_ tss.MessageData = (*Round1Message)(nil)
	_ tss.MessageData = (*Round2Message)(nil)
	_ tss.MessageData = (*Round3Message)(nil)
	_ tss.MessageData = (*Round4Message)(nil)
	_ tss.MessageData = (*Round5Message)(nil)
)

type (
	// Round1Message is broadcast in round 1: a commitment to this party's
	// y_i = u_i*G, its Paillier public key, the correctness proof for that
	// key (bound to y_i), and its Pedersen range-proof parameters.
	Round1Message struct {
		Commitment    cmt.HashCommitment
		PaillierPK    *paillier.PublicKey
		PaillierProof paillier.Proof
		NTilde, H1, H2 *big.Int
	}

	// Round2Message is broadcast in round 2: the decommitment opening y_i.
	Round2Message struct {
		DeCommitment cmt.HashDeCommitment
	}

	// Round3Message is unicast in round 3: this party's Shamir share for
	// the recipient, AES-GCM sealed under the pairwise ECDH key derived
	// from both parties' y values.
	Round3Message struct {
		Nonce      []byte
		Ciphertext []byte
	}

	// Round4Message is broadcast in round 4: this party's Feldman VSS
	// commitment vector.
	Round4Message struct {
		Commitments vss.Vs
	}

	// Round5Message is broadcast in round 5: a Schnorr proof of knowledge
	// of this party's final combined share Xi.
	Round5Message struct {
		Proof *schnorrZK.DLogProof
	}
)

func (*Round1Message) Tag() tss.RoundTag { return tss.KeyGenRound1 }
func (*Round2Message) Tag() tss.RoundTag { return tss.KeyGenRound2 }
func (*Round3Message) Tag() tss.RoundTag { return tss.KeyGenRound3 }
func (*Round4Message) Tag() tss.RoundTag { return tss.KeyGenRound4 }
func (*Round5Message) Tag() tss.RoundTag { return tss.KeyGenRound5 }

func projectRound1(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round1Message)
	return m, ok
}
func projectRound2(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round2Message)
	return m, ok
}
func projectRound3(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round3Message)
	return m, ok
}
func projectRound4(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round4Message)
	return m, ok
}
func projectRound5(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round5Message)
	return m, ok
}
