// Package interview drives a spoken mock interview over a live model
// channel: an introduction, one question per call to AskNextQuestion, then a
// closing. The phase machine lives in fsm.go; this file owns sending.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/prompts"
)

const setupTimeout = 10 * time.Second

// Renderer resolves a named template and fills its placeholders, falling
// back to the given literal. *prompts.Resolver implements it.
type Renderer interface {
	Render(ctx context.Context, name string, vars map[string]string, fallback string) string
}

// Session is the fixed context of one interview.
type Session struct {
	SessionID          string
	InterviewerName    string
	JobTitle           string
	Company            string
	InterviewType      string
	CandidateFirstName string
	Questions          []string
}

type LiveConfig struct {
	Model string
	Voice string
}

// Response is one captured piece of a candidate answer.
type Response struct {
	QuestionIndex int       `json:"question_index"`
	ChunkIndex    int64     `json:"chunk_index"`
	AudioBase64   string    `json:"audio_base64,omitempty"`
	Text          string    `json:"text,omitempty"`
	ReceivedAt    time.Time `json:"received_at"`
}

// Handler receives what Listen reads from the channel.
type Handler interface {
	OnAudio(chunk AudioChunk)
	OnTurnComplete(turn Turn)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Audio        func(AudioChunk)
	TurnComplete func(Turn)
}

func (h HandlerFuncs) OnAudio(c AudioChunk) {
	if h.Audio != nil {
		h.Audio(c)
	}
}

func (h HandlerFuncs) OnTurnComplete(t Turn) {
	if h.TurnComplete != nil {
		h.TurnComplete(t)
	}
}

// Controller is not safe for concurrent AskNextQuestion calls; callers
// serialize them. Listen may run alongside.
type Controller struct {
	ch      Channel
	prompts Renderer
	log     logrus.FieldLogger
	session Session
	live    LiveConfig

	mu        sync.Mutex
	state     State
	responses []Response
	buf       TurnBuffer
}

func NewController(ch Channel, r Renderer, session Session, live LiveConfig, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		ch:      ch,
		prompts: r,
		log:     log.WithField("session_id", session.SessionID),
		session: session,
		live:    live,
		state:   State{Phase: PhaseIntroduction, Total: len(session.Questions)},
	}
}

func (c *Controller) vars(question string) map[string]string {
	first := c.session.CandidateFirstName
	if first == "" {
		first = "there"
	}
	v := map[string]string{
		"interviewerName":    c.session.InterviewerName,
		"jobTitle":           c.session.JobTitle,
		"company":            c.session.Company,
		"interviewType":      c.session.InterviewType,
		"candidateFirstName": first,
	}
	if question != "" {
		v["question"] = question
	}
	return v
}

// Start sends the setup message, waits for the server to acknowledge it and
// then sends the introduction.
func (c *Controller) Start(ctx context.Context) error {
	if !c.ch.Connected() {
		return ErrNotConnected
	}
	if err := c.ch.Send(ctx, setupMessage(c.live.Model, c.live.Voice, "")); err != nil {
		return err
	}
	if err := c.awaitSetup(ctx); err != nil {
		return err
	}

	intro := c.prompts.Render(ctx, prompts.NameIntroduction, c.vars(""), prompts.IntroductionTemplate)
	if err := c.ch.Send(ctx, TextTurn(intro)); err != nil {
		return err
	}
	c.log.WithField("questions", len(c.session.Questions)).Info("interview started")
	return nil
}

// awaitSetup reads until setupComplete. Anything earlier is dropped.
func (c *Controller) awaitSetup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	for {
		msg, err := c.ch.Receive(ctx)
		if errors.Is(err, ErrMalformedMessage) {
			c.log.WithError(err).Warn("dropping malformed server message")
			continue
		}
		if err != nil {
			return fmt.Errorf("await setup complete: %w", err)
		}
		if msg != nil && msg.SetupComplete != nil {
			return nil
		}
	}
}

// AskNextQuestion sends the next question, or the closing once every
// question has been asked. The state only moves after a successful send, so
// a failed send is retried by the next call. After closing it returns
// ErrInterviewComplete.
func (c *Controller) AskNextQuestion(ctx context.Context) (Step, error) {
	if !c.ch.Connected() {
		return Step{}, ErrNotConnected
	}

	c.mu.Lock()
	cur := c.state
	c.mu.Unlock()

	next, step := Advance(cur)

	var text string
	switch step.Kind {
	case StepNone:
		return step, ErrInterviewComplete
	case StepClose:
		text = c.prompts.Render(ctx, prompts.NameClosing, c.vars(""), prompts.ClosingTemplate)
	case StepAsk:
		text = c.prompts.Render(ctx, prompts.NameQuestion, c.vars(c.session.Questions[step.Index]), prompts.QuestionTemplate)
	}

	if err := c.ch.Send(ctx, TextTurn(text)); err != nil {
		c.log.WithError(err).WithField("step", step.Kind.String()).Warn("send failed")
		return step, err
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"step": step.Kind.String(), "index": next.Index, "phase": next.Phase}).Debug("interview advanced")
	return step, nil
}

// HandleMessage feeds one server message into the turn buffer.
func (c *Controller) HandleMessage(msg *ServerMessage) ([]AudioChunk, *Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Add(msg)
}

// Listen reads the channel until it fails or ctx ends, reporting audio and
// completed turns to h. Cancelling ctx closes the channel.
func (c *Controller) Listen(ctx context.Context, h Handler) error {
	stop := context.AfterFunc(ctx, func() { _ = c.ch.Close() })
	defer stop()

	for {
		msg, err := c.ch.Receive(ctx)
		if errors.Is(err, ErrMalformedMessage) {
			c.log.WithError(err).Warn("dropping malformed server message")
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		chunks, turn, err := c.HandleMessage(msg)
		for _, a := range chunks {
			h.OnAudio(a)
		}
		if err != nil {
			c.log.WithError(err).Warn("dropping malformed audio part")
		}
		if turn != nil {
			h.OnTurnComplete(*turn)
		}
	}
}

// RecordResponse appends a candidate answer chunk.
func (c *Controller) RecordResponse(r Response) {
	if r.ReceivedAt.IsZero() {
		r.ReceivedAt = time.Now().UTC()
	}
	c.mu.Lock()
	c.responses = append(c.responses, r)
	c.mu.Unlock()
}

func (c *Controller) Responses() []Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Response(nil), c.responses...)
}

// ForwardAudio streams candidate audio (base64 PCM) to the model.
func (c *Controller) ForwardAudio(ctx context.Context, mimeType, data string) error {
	if !c.ch.Connected() {
		return ErrNotConnected
	}
	if mimeType == "" {
		mimeType = "audio/pcm;rate=16000"
	}
	return c.ch.Send(ctx, ClientMessage{RealtimeInput: &RealtimeInput{
		MediaChunks: []Blob{{MimeType: mimeType, Data: data}},
	}})
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentQuestion returns the index of the question being answered, or -1
// before the first question.
func (c *Controller) CurrentQuestion() int {
	s := c.State()
	return s.Index - 1
}

func (c *Controller) IsInterviewComplete() bool {
	return c.State().Phase == PhaseClosing
}

func (c *Controller) Connected() bool { return c.ch.Connected() }

// Close closes the channel. Later sends fail with ErrNotConnected.
func (c *Controller) Close() error {
	return c.ch.Close()
}
