package interview

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"sync"
)

var errSimulatedSend = errors.New("simulated send failure")

// SimulatedChannel is an in-memory Channel. Inbound messages are scripted
// with Push; outbound messages are recorded. A setup message is answered
// with setupComplete unless WithholdSetupComplete was called.
type SimulatedChannel struct {
	mu        sync.Mutex
	sent      []ClientMessage
	closed    bool
	failSends int

	withholdSetup bool

	inbox chan *ServerMessage
	done  chan struct{}
	once  sync.Once
}

func NewSimulatedChannel() *SimulatedChannel {
	return &SimulatedChannel{
		inbox: make(chan *ServerMessage, 64),
		done:  make(chan struct{}),
	}
}

func (s *SimulatedChannel) Send(_ context.Context, msg ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotConnected
	}
	if s.failSends > 0 {
		s.failSends--
		return errSimulatedSend
	}
	s.sent = append(s.sent, msg)
	if msg.Setup != nil && !s.withholdSetup {
		select {
		case s.inbox <- &ServerMessage{SetupComplete: &struct{}{}}:
		default:
		}
	}
	return nil
}

// WithholdSetupComplete stops the automatic setupComplete reply to a setup
// message.
func (s *SimulatedChannel) WithholdSetupComplete() {
	s.mu.Lock()
	s.withholdSetup = true
	s.mu.Unlock()
}

// FailNextSends makes the next n sends fail.
func (s *SimulatedChannel) FailNextSends(n int) {
	s.mu.Lock()
	s.failSends = n
	s.mu.Unlock()
}

// Push queues a server message for Receive.
func (s *SimulatedChannel) Push(msg *ServerMessage) {
	select {
	case s.inbox <- msg:
	case <-s.done:
	}
}

func (s *SimulatedChannel) Receive(ctx context.Context) (*ServerMessage, error) {
	select {
	case msg := <-s.inbox:
		return msg, nil
	case <-s.done:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SimulatedChannel) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
	return nil
}

func (s *SimulatedChannel) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *SimulatedChannel) Sent() []ClientMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClientMessage(nil), s.sent...)
}

// SentTexts returns the text of every text turn sent, in order.
func (s *SimulatedChannel) SentTexts() []string {
	var out []string
	for _, m := range s.Sent() {
		if m.ClientContent != nil {
			out = append(out, m.TurnText())
		}
	}
	return out
}

// AudioMessage builds a server message carrying pcm as one audio part.
func AudioMessage(pcm []byte, turnComplete bool) *ServerMessage {
	sc := &ServerContent{TurnComplete: turnComplete}
	if len(pcm) > 0 {
		sc.ModelTurn = &Content{Role: "model", Parts: []Part{{InlineData: &Blob{
			MimeType: "audio/pcm;rate=24000",
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}}}}
	}
	return &ServerMessage{ServerContent: sc}
}
