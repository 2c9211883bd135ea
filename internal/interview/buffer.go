package interview

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// AudioChunk is one inline audio part from the model. Data is the base64
// payload as received.
type AudioChunk struct {
	MimeType string
	Data     string
	PCM      []byte
}

// Turn is a completed model turn.
type Turn struct {
	Audio  []byte
	Text   []string
	Chunks int
}

// TurnBuffer accumulates model output until the server marks the turn
// complete. Chunks are kept in receipt order.
type TurnBuffer struct {
	audio [][]byte
	text  []string
}

// Add consumes one server message. It returns the audio chunks the message
// carried and, when the message completes a turn, the accumulated turn.
// An interrupted turn is discarded. Parts that fail to decode are skipped
// and reported through the error; completion and interruption flags are
// still applied, so the turn and the error may both be non-nil.
func (b *TurnBuffer) Add(msg *ServerMessage) ([]AudioChunk, *Turn, error) {
	if msg == nil || msg.ServerContent == nil {
		return nil, nil, nil
	}
	sc := msg.ServerContent

	var (
		chunks    []AudioChunk
		decodeErr error
	)
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p.Text != "" {
				b.text = append(b.text, p.Text)
			}
			if p.InlineData == nil || !strings.HasPrefix(p.InlineData.MimeType, "audio/") {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				if decodeErr == nil {
					decodeErr = fmt.Errorf("decode audio chunk: %w", err)
				}
				continue
			}
			b.audio = append(b.audio, pcm)
			chunks = append(chunks, AudioChunk{MimeType: p.InlineData.MimeType, Data: p.InlineData.Data, PCM: pcm})
		}
	}

	if sc.Interrupted {
		b.Reset()
		return chunks, nil, decodeErr
	}
	if !sc.TurnComplete {
		return chunks, nil, decodeErr
	}

	turn := &Turn{Text: b.text, Chunks: len(b.audio)}
	size := 0
	for _, a := range b.audio {
		size += len(a)
	}
	turn.Audio = make([]byte, 0, size)
	for _, a := range b.audio {
		turn.Audio = append(turn.Audio, a...)
	}
	b.audio, b.text = nil, nil
	return chunks, turn, decodeErr
}

// Pending reports how many audio chunks are buffered.
func (b *TurnBuffer) Pending() int { return len(b.audio) }

func (b *TurnBuffer) Reset() {
	b.audio, b.text = nil, nil
}
