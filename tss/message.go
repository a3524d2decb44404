// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

// RoundTag identifies which round a MessageData body belongs to. Collect
// itself does not read it; a round's projection function is what rejects a
// body that belongs to another round.
type RoundTag int

const (
	NoneTag RoundTag = iota
	KeyGenRound1
	KeyGenRound2
	KeyGenRound3
	KeyGenRound4
	KeyGenRound5
	SignRound1
	SignRound2
	SignRound3
	SignRound4
	SignRound5
	SignRound6
	SignRound7
	SignRound8
	SignRound9
)

func (t RoundTag) String() string {
	names := map[RoundTag]string{
		NoneTag:      "None",
		KeyGenRound1: "KeyGenRound1",
		KeyGenRound2: "KeyGenRound2",
		KeyGenRound3: "KeyGenRound3",
		KeyGenRound4: "KeyGenRound4",
		KeyGenRound5: "KeyGenRound5",
		SignRound1:   "SignRound1",
		SignRound2:   "SignRound2",
		SignRound3:   "SignRound3",
		SignRound4:   "SignRound4",
		SignRound5:   "SignRound5",
		SignRound6:   "SignRound6",
		SignRound7:   "SignRound7",
		SignRound8:   "SignRound8",
		SignRound9:   "SignRound9",
	}
	if n, ok := names[t]; ok {
		return n
	}
	return "Unknown"
}

// MessageData is the tagged union of round payloads. Every DKG and signing
// round message implements it, and each concrete type always reports the
// same tag. The round projection functions type-assert on the concrete Go
// type, which rejects a body belonging to any other round; the shared
// scalar projection for signing rounds 3 and 9 also compares Tag() with the
// round being collected.
type MessageData interface {
	Tag() RoundTag
}
