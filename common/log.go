// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

// Logger is the package-wide structured logger. The hashing helpers in this
// package log write failures through it; the keygen and signing drivers do
// not use it and report everything on their channel instead. Callers can
// redirect or silence it with SetLogLevel.
var Logger = logging.Logger("tss-party")

// SetLogLevel adjusts the verbosity of Logger. Valid levels: "debug",
// "info", "warn", "error".
func SetLogLevel(level string) error {
	return logging.SetLogLevel("tss-party", level)
}
