package interview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLiveServer answers every client frame with a one-chunk completed turn
// and records the api key and frames it saw.
func fakeLiveServer(t *testing.T) (*httptest.Server, chan ClientMessage, chan string) {
	t.Helper()
	frames := make(chan ClientMessage, 16)
	keys := make(chan string, 1)
	up := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.URL.Query().Get("key")
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg ClientMessage
			if json.Unmarshal(data, &msg) == nil {
				frames <- msg
			}
			reply, _ := json.Marshal(AudioMessage([]byte{7, 8}, true))
			if err := conn.WriteMessage(websocket.BinaryMessage, reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, frames, keys
}

func TestLiveChannel_RoundTrip(t *testing.T) {
	srv, frames, keys := fakeLiveServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := DialLive(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), "secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", <-keys)
	assert.True(t, ch.Connected())

	require.NoError(t, ch.Send(ctx, TextTurn("hello")))
	got := <-frames
	assert.Equal(t, "hello", got.TurnText())

	msg, err := ch.Receive(ctx)
	require.NoError(t, err)
	var b TurnBuffer
	_, turn, err := b.Add(msg)
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Equal(t, []byte{7, 8}, turn.Audio)

	require.NoError(t, ch.Close())
	assert.False(t, ch.Connected())
	assert.ErrorIs(t, ch.Send(ctx, TextTurn("late")), ErrNotConnected)
	assert.NoError(t, ch.Close())
}

func TestDialLive_BadURL(t *testing.T) {
	_, err := DialLive(context.Background(), "ws://127.0.0.1:1/nope", "")
	assert.Error(t, err)
}

func TestLiveChannel_MalformedFrameIsSkipped(t *testing.T) {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		reply, _ := json.Marshal(AudioMessage([]byte{4, 2}, true))
		_ = conn.WriteMessage(websocket.TextMessage, reply)
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := DialLive(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), "")
	require.NoError(t, err)

	_, err = ch.Receive(ctx)
	require.ErrorIs(t, err, ErrMalformedMessage)
	assert.True(t, ch.Connected())

	c := NewController(ch, stubRenderer{}, testSession("Q1"), LiveConfig{}, quietLog())
	listenCtx, stop := context.WithCancel(context.Background())
	defer stop()
	turns := make(chan Turn, 1)
	go func() {
		_ = c.Listen(listenCtx, HandlerFuncs{TurnComplete: func(t Turn) { turns <- t }})
	}()

	select {
	case turn := <-turns:
		assert.Equal(t, []byte{4, 2}, turn.Audio)
	case <-time.After(3 * time.Second):
		t.Fatal("turn after malformed frame not delivered")
	}
}

func TestListen_SkipsMalformedFrames(t *testing.T) {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		reply, _ := json.Marshal(AudioMessage([]byte{5}, true))
		_ = conn.WriteMessage(websocket.BinaryMessage, reply)
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ch, err := DialLive(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), "")
	require.NoError(t, err)
	c := NewController(ch, stubRenderer{}, testSession("Q1"), LiveConfig{}, quietLog())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	turns := make(chan Turn, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Listen(ctx, HandlerFuncs{TurnComplete: func(t Turn) { turns <- t }})
	}()

	select {
	case turn := <-turns:
		assert.Equal(t, []byte{5}, turn.Audio)
	case err := <-done:
		t.Fatalf("listen returned early: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("turn not delivered")
	}
	assert.True(t, c.Connected())
}

func TestLiveChannel_CloseDoesNotWaitForWriter(t *testing.T) {
	srv, _, _ := fakeLiveServer(t)
	ch, err := DialLive(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), "k")
	require.NoError(t, err)

	// simulate a Send stuck on the socket
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()

	done := make(chan error, 1)
	go func() { done <- ch.Close() }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close blocked behind writer")
	}
	assert.False(t, ch.Connected())
}
