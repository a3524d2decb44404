// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import "fmt"

// OutgoingMessage is the tagged union a party emits on its outbound
// channel. The transport owns fan-out: a Send with a nil Target is a
// broadcast and the transport is responsible for delivering it to every
// other party.
type OutgoingMessage interface {
	isOutgoing()
}

// IncomingMessage is the tagged union a party receives on its inbound
// channel. The transport is assumed to have already routed the message;
// the driver trusts Sender only as an integer label, never cryptographically.
type IncomingMessage interface {
	isIncoming()
}

type (
	// SendMessage unicasts Data to Target, or broadcasts it when Target is nil.
	SendMessage struct {
		Sender *PartyID
		Target *PartyID
		Data   MessageData
	}

	// CompleteMessage is the terminal success event. Data is the driver's
	// artifact: *keygen.KeyGenResult for a keygen session, *signing.SignResult
	// for a signing session.
	CompleteMessage struct {
		Data interface{}
	}

	// QuitMessage is the terminal close signal, always emitted after Complete.
	QuitMessage struct{}

	// ErrorMessage is the terminal failure signal.
	ErrorMessage struct {
		Code ErrorCode
	}

	// LogMessage is operational trace; consumers may discard it.
	LogMessage struct {
		Text string
	}
)

func (SendMessage) isOutgoing()     {}
func (CompleteMessage) isOutgoing() {}
func (QuitMessage) isOutgoing()     {}
func (ErrorMessage) isOutgoing()    {}
func (LogMessage) isOutgoing()      {}

// IncomingSend is the sole variant of IncomingMessage: a unicast or
// broadcast delivery from Sender. Target is carried for parity with the
// wire format but ignored by the orchestrator; the transport has already
// routed the message to us.
type IncomingSend struct {
	Sender *PartyID
	Target *PartyID
	Data   MessageData
}

func (IncomingSend) isIncoming() {}

// Emitter/Receiver name the two directions of the channel pair a party owns.
type (
	Emitter  chan<- OutgoingMessage
	Receiver <-chan IncomingMessage
)

// Broadcast builds a SendMessage with a nil Target.
func Broadcast(from *PartyID, data MessageData) OutgoingMessage {
	return SendMessage{Sender: from, Target: nil, Data: data}
}

// Unicast builds a SendMessage addressed to a single peer.
func Unicast(from, to *PartyID, data MessageData) OutgoingMessage {
	return SendMessage{Sender: from, Target: to, Data: data}
}

func Logf(emitter chan<- OutgoingMessage, format string, args ...interface{}) {
	emitter <- LogMessage{Text: fmt.Sprintf(format, args...)}
}

// Halt emits the terminal failure sequence described in the channel
// surface's event grammar: a diagnostic Log line, then Error(Halted). Both
// are plain channel sends that block until the emitter accepts them.
func Halt(emitter chan<- OutgoingMessage, err *Error) {
	emitter <- LogMessage{Text: fmt.Sprintf("Error: %s", err)}
	emitter <- ErrorMessage{Code: err.Code()}
}

// Succeed emits the terminal success sequence: Complete carrying the
// driver's result, followed by Quit.
func Succeed(emitter chan<- OutgoingMessage, data interface{}) {
	emitter <- CompleteMessage{Data: data}
	emitter <- QuitMessage{}
}
