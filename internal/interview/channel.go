package interview

import (
	"context"
	"errors"
)

var (
	ErrNotConnected      = errors.New("interview channel is not connected")
	ErrInterviewComplete = errors.New("interview is complete")
	// ErrMalformedMessage marks a single undecodable frame; the channel
	// stays usable.
	ErrMalformedMessage = errors.New("malformed live message")
)

// Channel is the duplex connection to the live model.
type Channel interface {
	Send(ctx context.Context, msg ClientMessage) error
	Receive(ctx context.Context) (*ServerMessage, error)
	Close() error
	Connected() bool
}
