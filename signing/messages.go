// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"math/big"

	cmt "github.com/keyshard/tss-party/crypto/commitments"
	"github.com/keyshard/tss-party/crypto/mta"
	"github.com/keyshard/tss-party/crypto/schnorrZK"
	"github.com/keyshard/tss-party/tss"
)

var (
	_ tss.MessageData = (*Round1Message)(nil)
	_ tss.MessageData = (*Round2Message)(nil)
	_ tss.MessageData = (*Round3Message)(nil)
	_ tss.MessageData = (*Round4Message)(nil)
	_ tss.MessageData = (*Round5Message)(nil)
	_ tss.MessageData = (*Round6Message)(nil)
	_ tss.MessageData = (*Round7Message)(nil)
	_ tss.MessageData = (*Round8Message)(nil)
	_ tss.MessageData = (*Round9Message)(nil)
)

type (
	// Round1Message is broadcast in round 1: a commitment to this party's
	// Gamma_i = gamma_i*G, and the MtA initiator ciphertext for k_i together
	// with one range proof per co-signer (the ciphertext itself does not
	// depend on the recipient; the accompanying range proof does, since it
	// is built against that recipient's Pedersen parameters).
	Round1Message struct {
		Commitment cmt.HashCommitment
		CKI        *big.Int
		Proofs     []*mta.RangeProofAlice // indexed by position within the signer subset
	}

	// Round2Message is unicast in round 2, one per co-signer: the two MtA
	// responder ciphertexts built from this party's gamma_i and w_i against
	// the recipient's round-1 ciphertext.
	Round2Message struct {
		CGamma  *big.Int
		PiGamma *mta.ProofBob
		CW      *big.Int
		PiW     *mta.ProofBobWC
	}

	// Round3Message is broadcast in round 3: this party's delta_i share.
	// Shares its wire scalar shape with Round9Message but carries a
	// distinct tag.
	Round3Message struct {
		Delta *big.Int
	}

	// Round4Message is broadcast in round 4: the decommitment opening
	// Gamma_i from round 1.
	Round4Message struct {
		DeCommitment cmt.HashDeCommitment
	}

	// Round5Message is broadcast in round 5: the Phase 5A commitment to
	// (V_i, A_i).
	Round5Message struct {
		Commitment cmt.HashCommitment
	}

	// Round6Message is broadcast in round 6: the Phase 5A decommitment
	// together with the HomoElGamal proof binding V_i to (s_i, l_i).
	Round6Message struct {
		DeCommitment cmt.HashDeCommitment
		Proof        *schnorrZK.HomoElGamalProof
	}

	// Round7Message is broadcast in round 7: the Phase 5C commitment to
	// (U_i, T_i).
	Round7Message struct {
		Commitment cmt.HashCommitment
	}

	// Round8Message is broadcast in round 8: the Phase 5C decommitment.
	Round8Message struct {
		DeCommitment cmt.HashDeCommitment
	}

	// Round9Message is broadcast in round 9: this party's partial
	// signature s_i. Shares its wire scalar shape with Round3Message but
	// carries a distinct tag.
	Round9Message struct {
		S *big.Int
	}
)

func (*Round1Message) Tag() tss.RoundTag { return tss.SignRound1 }
func (*Round2Message) Tag() tss.RoundTag { return tss.SignRound2 }
func (*Round3Message) Tag() tss.RoundTag { return tss.SignRound3 }
func (*Round4Message) Tag() tss.RoundTag { return tss.SignRound4 }
func (*Round5Message) Tag() tss.RoundTag { return tss.SignRound5 }
func (*Round6Message) Tag() tss.RoundTag { return tss.SignRound6 }
func (*Round7Message) Tag() tss.RoundTag { return tss.SignRound7 }
func (*Round8Message) Tag() tss.RoundTag { return tss.SignRound8 }
func (*Round9Message) Tag() tss.RoundTag { return tss.SignRound9 }

func projectRound1(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round1Message)
	return m, ok
}
func projectRound2(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round2Message)
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
func projectRound6(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round6Message)
	return m, ok
}
func projectRound7(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round7Message)
	return m, ok
}
func projectRound8(data tss.MessageData) (interface{}, bool) {
	m, ok := data.(*Round8Message)
	return m, ok
}

// projectScalar builds the shared projection for the dual-tag scalar body
// carried by rounds 3 and 9: it accepts whichever of the two concrete types
// matches, but only when that body's own tag equals the round being
// collected, so a correctly-typed-but-wrong-round message is still rejected.
func projectScalar(tag tss.RoundTag) tss.Project {
	return func(data tss.MessageData) (interface{}, bool) {
		if data.Tag() != tag {
			return nil, false
		}
		switch m := data.(type) {
		case *Round3Message:
			return m.Delta, true
		case *Round9Message:
			return m.S, true
		default:
			return nil, false
		}
	}
}
