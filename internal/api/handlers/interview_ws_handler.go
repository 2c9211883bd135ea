package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/api/middleware"
	"github.com/yoockh/careerpilot/internal/interview"
	"github.com/yoockh/careerpilot/internal/services"
	"github.com/yoockh/careerpilot/internal/utils"
	"github.com/yoockh/careerpilot/internal/workers"
)

// LiveDialer opens the model channel for one interview.
type LiveDialer func(ctx context.Context) (interview.Channel, error)

// ResponseQueue hands answer audio to the transcription workers.
type ResponseQueue interface {
	Enqueue(ctx context.Context, j workers.ResponseJob) error
}

type InterviewWSOptions struct {
	Live      interview.LiveConfig
	Responses services.ResponseService // optional
	Queue     ResponseQueue            // optional
	Redis     *redis.Client            // optional, worker status forwarding
	Logger    logrus.FieldLogger
}

type InterviewWSHandler struct {
	interviews services.InterviewService
	jobs       services.JobService
	prompts    interview.Renderer
	dial       LiveDialer
	opts       InterviewWSOptions
	log        logrus.FieldLogger
	upgrader   websocket.Upgrader
}

func NewInterviewWSHandler(interviews services.InterviewService, jobs services.JobService, r interview.Renderer, dial LiveDialer, opts InterviewWSOptions) *InterviewWSHandler {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InterviewWSHandler{
		interviews: interviews,
		jobs:       jobs,
		prompts:    r,
		dial:       dial,
		opts:       opts,
		log:        log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type wsClientMsg struct {
	Type        string `json:"type"`
	ChunkIndex  int64  `json:"chunk_index"`
	AudioBase64 string `json:"audio_base64"`
	MimeType    string `json:"mime_type"`
	Text        string `json:"text"`
	IsFinal     bool   `json:"is_final"`
}

type wsAudioFrame struct {
	Type         string `json:"type"`
	Data         string `json:"data,omitempty"`
	TurnComplete bool   `json:"turn_complete"`
}

type wsStateFrame struct {
	Type     string `json:"type"`
	Phase    string `json:"phase"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Step     string `json:"step,omitempty"`
	Complete bool   `json:"complete"`
}

type wsErrorFrame struct {
	Type    string     `json:"type"`
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (w *wsConn) writeError(code utils.Code, msg string) {
	_ = w.writeJSON(wsErrorFrame{Type: "error", Code: code, Message: msg})
}

// Serve runs one interview over the browser websocket. The model channel is
// dialled before upgrading so setup failures still answer with plain HTTP.
func (h *InterviewWSHandler) Serve(c *gin.Context) {
	const op = "InterviewWSHandler.Serve"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")
	reqCtx := c.Request.Context()

	iv, err := h.interviews.Get(reqCtx, userID, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if iv.Status == services.InterviewEnded {
		writeError(c, utils.E(utils.CodeConflict, op, "interview has ended", nil))
		return
	}
	job, err := h.jobs.Get(reqCtx, userID, iv.JobID)
	if err != nil {
		writeError(c, err)
		return
	}

	ch, err := h.dial(reqCtx)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "live model is unavailable", err))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		_ = ch.Close()
		return
	}
	defer conn.Close()
	wc := &wsConn{c: conn}

	candidate := iv.CandidateName
	if candidate == "" {
		candidate = c.GetString("user_name")
	}
	ctrl := interview.NewController(ch, h.prompts, interview.Session{
		SessionID:          iv.SessionID,
		InterviewerName:    iv.InterviewerName,
		JobTitle:           job.Title,
		Company:            job.Company,
		InterviewType:      iv.InterviewType,
		CandidateFirstName: firstWord(candidate),
		Questions:          iv.Questions,
	}, h.opts.Live, h.log)
	defer ctrl.Close()

	log := middleware.Logger(c, h.log).WithFields(logrus.Fields{"session_id": sessionID, "user_id": userID})
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), 5*time.Second)
		defer cancel()
		if _, err := h.interviews.End(ctx, userID, sessionID); err != nil {
			log.WithError(err).Warn("failed to end interview")
		}
	}()

	ctx, cancel := context.WithCancel(reqCtx)
	defer cancel()

	if err := ctrl.Start(ctx); err != nil {
		log.WithError(err).Warn("interview start failed")
		wc.writeError(utils.CodeUnavailable, "failed to start interview")
		return
	}
	h.sendState(wc, ctrl, "")

	// model -> browser
	go func() {
		err := ctrl.Listen(ctx, interview.HandlerFuncs{
			Audio: func(a interview.AudioChunk) {
				_ = wc.writeJSON(wsAudioFrame{Type: "audio_chunk", Data: a.Data})
			},
			TurnComplete: func(interview.Turn) {
				_ = wc.writeJSON(wsAudioFrame{Type: "audio_chunk", TurnComplete: true})
			},
		})
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("live channel closed")
			wc.writeError(utils.CodeUnavailable, "live model connection lost")
		}
		cancel()
		_ = conn.Close()
	}()

	// workers -> browser
	if h.opts.Redis != nil {
		pubsub := h.opts.Redis.Subscribe(ctx, workers.StatusChannel(sessionID), workers.ResponseChannel(sessionID))
		defer pubsub.Close()
		go func() {
			for {
				m, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					return
				}
				if werr := wc.writeText([]byte(m.Payload)); werr != nil {
					return
				}
			}
		}()
	}

	// browser -> model; the only caller of AskNextQuestion
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			wc.writeError(utils.CodeInvalidArgument, "invalid json")
			continue
		}

		switch msg.Type {
		case "next":
			step, err := ctrl.AskNextQuestion(ctx)
			switch {
			case errors.Is(err, interview.ErrInterviewComplete):
				wc.writeError(utils.CodeConflict, "interview is complete")
				continue
			case err != nil:
				log.WithError(err).Warn("ask next question failed")
				wc.writeError(utils.CodeUnavailable, "failed to send question, try again")
				continue
			}
			st := ctrl.State()
			if err := h.interviews.UpdateProgress(ctx, sessionID, string(st.Phase), st.Index); err != nil {
				log.WithError(err).Warn("failed to record progress")
			}
			h.sendState(wc, ctrl, step.Kind.String())

		case "answer_chunk":
			h.handleAnswer(ctx, wc, ctrl, sessionID, msg, log)

		case "end":
			log.Info("interview ended by candidate")
			return

		default:
			wc.writeError(utils.CodeInvalidArgument, "unknown message type")
		}
	}
}

func (h *InterviewWSHandler) handleAnswer(ctx context.Context, wc *wsConn, ctrl *interview.Controller, sessionID string, msg wsClientMsg, log logrus.FieldLogger) {
	q := ctrl.CurrentQuestion()
	if q < 0 {
		wc.writeError(utils.CodeInvalidArgument, "no question has been asked yet")
		return
	}
	if msg.AudioBase64 == "" && strings.TrimSpace(msg.Text) == "" {
		wc.writeError(utils.CodeInvalidArgument, "audio_base64 or text required")
		return
	}

	ctrl.RecordResponse(interview.Response{
		QuestionIndex: q,
		ChunkIndex:    msg.ChunkIndex,
		AudioBase64:   msg.AudioBase64,
		Text:          msg.Text,
	})

	if msg.AudioBase64 != "" {
		if err := ctrl.ForwardAudio(ctx, msg.MimeType, stripDataURL(msg.AudioBase64)); err != nil {
			log.WithError(err).Debug("audio not forwarded to model")
		}
	}

	if h.opts.Responses != nil {
		var audio *string
		if msg.AudioBase64 != "" {
			audio = &msg.AudioBase64
		}
		if _, err := h.opts.Responses.InsertChunk(ctx, sessionID, q, msg.ChunkIndex, audio, msg.Text); err != nil {
			log.WithError(err).Warn("failed to buffer answer chunk")
			wc.writeError(utils.CodeInternal, "failed to store answer")
			return
		}
	}

	if h.opts.Queue != nil && msg.AudioBase64 != "" {
		err := h.opts.Queue.Enqueue(ctx, workers.ResponseJob{
			SessionID:     sessionID,
			QuestionIndex: q,
			ChunkIndex:    msg.ChunkIndex,
			AudioBase64:   msg.AudioBase64,
			IsFinal:       msg.IsFinal,
		})
		if err != nil {
			log.WithError(err).Warn("failed to enqueue answer chunk")
			wc.writeError(utils.CodeUnavailable, "failed to enqueue audio")
		}
	}
}

func (h *InterviewWSHandler) sendState(wc *wsConn, ctrl *interview.Controller, step string) {
	st := ctrl.State()
	_ = wc.writeJSON(wsStateFrame{
		Type:     "state",
		Phase:    string(st.Phase),
		Index:    st.Index,
		Total:    st.Total,
		Step:     step,
		Complete: ctrl.IsInterviewComplete(),
	})
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if _, rest, ok := strings.Cut(s, ","); ok {
			return rest
		}
	}
	return s
}
