package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Zuo-Peng/vask/internal/api"
	"github.com/Zuo-Peng/vask/internal/history"
)

// User-facing messages.
const (
	MsgMissingURL      = "Please enter a YouTube URL"
	MsgMissingQuestion = "Please enter a question"
	MsgMissingFollowUp = "Please enter a follow-up question"
	MsgRequestFailed   = "An error occurred while processing your request"
)

// View is the presentation capability the controller drives.
type View interface {
	ShowLoading()
	HideLoading()
	ShowError(message string)
	DisplayAnswer(answer string)
	ClearFollowUp()
}

// Asker performs the network exchange.
type Asker interface {
	Ask(ctx context.Context, req api.AskRequest) (*api.AskResponse, error)
}

// TokenSource produces fresh session tokens.
type TokenSource interface {
	Generate() string
}

// Recorder receives every answered exchange.
type Recorder interface {
	Record(ctx context.Context, ex history.Exchange) (int64, error)
}

// Controller validates input, owns the session token and settles each
// request onto a View.
type Controller struct {
	asker    Asker
	view     View
	tokens   TokenSource
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	sessionID string
}

// Option configures optional collaborators of a Controller.
type Option func(*Controller)

// WithRecorder stores answered exchanges in r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the logger used for diagnostics that are never shown.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a controller with a freshly generated session token.
func New(asker Asker, view View, tokens TokenSource, opts ...Option) *Controller {
	c := &Controller{
		asker:  asker,
		view:   view,
		tokens: tokens,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.sessionID = tokens.Generate()
	return c
}

// SessionID returns the current session token.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// HandleSubmit asks a primary question, starting a new conversation.
// Validation failures are shown without any network call.
func (c *Controller) HandleSubmit(ctx context.Context, videoURL, question string) {
	videoURL = strings.TrimSpace(videoURL)
	question = strings.TrimSpace(question)

	if videoURL == "" {
		c.view.ShowError(MsgMissingURL)
		return
	}
	if question == "" {
		c.view.ShowError(MsgMissingQuestion)
		return
	}

	c.mu.Lock()
	c.sessionID = c.tokens.Generate()
	token := c.sessionID
	c.mu.Unlock()

	c.view.ShowLoading()
	c.submit(ctx, videoURL, question, token, false)
}

// HandleFollowUp asks a question in the current conversation, reusing the
// session token. The follow-up input is cleared once the call settles,
// whatever the outcome.
func (c *Controller) HandleFollowUp(ctx context.Context, videoURL, followUp string) {
	followUp = strings.TrimSpace(followUp)
	videoURL = strings.TrimSpace(videoURL)

	if followUp == "" {
		c.view.ShowError(MsgMissingFollowUp)
		return
	}

	token := c.SessionID()
	c.view.ShowLoading()
	c.submit(ctx, videoURL, followUp, token, true)
	c.view.ClearFollowUp()
}

func (c *Controller) submit(ctx context.Context, videoURL, question, token string, followUp bool) {
	resp, err := c.asker.Ask(ctx, api.AskRequest{
		VideoURL:  videoURL,
		Question:  question,
		SessionID: token,
	})
	if err != nil {
		c.logger.Error("ask request failed",
			"err", err,
			"session_id", token,
			"video_url", videoURL,
		)
		c.view.ShowError(MsgRequestFailed)
		return
	}

	if !resp.Success {
		c.logger.Info("backend returned error", "session_id", token, "error", resp.Error)
		c.view.ShowError(resp.Error)
		return
	}

	c.view.HideLoading()
	c.view.DisplayAnswer(resp.Answer)
	c.record(ctx, history.Exchange{
		SessionID: token,
		VideoURL:  videoURL,
		Question:  question,
		Answer:    resp.Answer,
		FollowUp:  followUp,
		AskedAt:   c.now(),
	})
}

func (c *Controller) record(ctx context.Context, ex history.Exchange) {
	if c.recorder == nil {
		return
	}
	if _, err := c.recorder.Record(ctx, ex); err != nil {
		c.logger.Warn("failed to record exchange", "err", err, "session_id", ex.SessionID)
	}
}
