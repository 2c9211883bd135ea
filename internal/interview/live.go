package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const liveWriteTimeout = 10 * time.Second

// LiveChannel is a Channel over the Gemini Live websocket.
type LiveChannel struct {
	conn *websocket.Conn

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// DialLive connects to endpoint, passing apiKey as the key query parameter.
func DialLive(ctx context.Context, endpoint, apiKey string) (*LiveChannel, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse live url: %w", err)
	}
	if apiKey != "" {
		q := u.Query()
		q.Set("key", apiKey)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 15 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial live api: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("dial live api: %w", err)
	}
	return NewLiveChannel(conn), nil
}

func NewLiveChannel(conn *websocket.Conn) *LiveChannel {
	return &LiveChannel{conn: conn}
}

func (l *LiveChannel) Send(ctx context.Context, msg ClientMessage) error {
	if l.closed.Load() {
		return ErrNotConnected
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	deadline := time.Now().Add(liveWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = l.conn.SetWriteDeadline(deadline)
	if err := l.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		l.markClosed()
		return fmt.Errorf("live send: %w", err)
	}
	return nil
}

// Receive blocks until a message arrives. The server sends JSON in both
// text and binary frames. A frame that is not JSON yields ErrMalformedMessage
// without closing the channel.
func (l *LiveChannel) Receive(ctx context.Context) (*ServerMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// zero clears a deadline left by an earlier bounded call
	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = l.conn.SetReadDeadline(deadline)

	for {
		typ, data, err := l.conn.ReadMessage()
		if err != nil {
			l.markClosed()
			return nil, err
		}
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}
		var msg ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		return &msg, nil
	}
}

func (l *LiveChannel) Connected() bool { return !l.closed.Load() }

func (l *LiveChannel) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		// WriteControl may run alongside a blocked Send, so no writeMu here.
		_ = l.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = l.conn.Close()
	})
	return err
}

func (l *LiveChannel) markClosed() {
	l.closed.Store(true)
}
