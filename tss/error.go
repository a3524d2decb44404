// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import "fmt"

// ErrorCode is the stable, coarse code surfaced to the channel on a fatal
// failure. Finer detail travels separately as a Log line.
type ErrorCode int

const (
	ErrHalted                ErrorCode = 0
	ErrUnknown                ErrorCode = 1
	ErrCollectTimeout         ErrorCode = 10
	ErrCollectUnexpectedData  ErrorCode = 11
	ErrCollectDisconnected    ErrorCode = 12
)

func (c ErrorCode) String() string {
	switch c {
	case ErrHalted:
		return "Halted"
	case ErrUnknown:
		return "Unknown"
	case ErrCollectTimeout:
		return "CollectTimeout"
	case ErrCollectUnexpectedData:
		return "CollectUnexpectedData"
	case ErrCollectDisconnected:
		return "CollectDisconnected"
	default:
		return "Unknown"
	}
}

// Error wraps a session-fatal cause with the round it happened in and the
// parties implicated, if known. Every driver failure is reported this way
// before the channel's terminal Error event is emitted.
type Error struct {
	cause    error
	round    int
	self     *PartyID
	culprits []*PartyID
	code     ErrorCode
}

func NewError(err error, round int, self *PartyID, code ErrorCode, culprits ...*PartyID) *Error {
	return &Error{cause: err, round: round, self: self, culprits: culprits, code: code}
}

func (err *Error) Cause() error        { return err.cause }
func (err *Error) Round() int          { return err.round }
func (err *Error) Self() *PartyID      { return err.self }
func (err *Error) Culprits() []*PartyID { return err.culprits }
func (err *Error) Code() ErrorCode     { return err.code }

func (err *Error) Error() string {
	if err == nil {
		return "<nil tss.Error>"
	}
	if len(err.culprits) > 0 {
		return fmt.Sprintf("party %s, round %d, culprits %v: %s", err.self, err.round, err.culprits, err.cause)
	}
	return fmt.Sprintf("party %s, round %d: %s", err.self, err.round, err.cause)
}
