package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/app/repository"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/entitlements"
)

var (
	// ErrPermissionDenied means the microphone could not be acquired;
	// the controller is back in Idle and may be started again.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrInvalidTransition marks an operation that is not legal in the
	// controller's current state.
	ErrInvalidTransition = errors.New("invalid session state transition")
)

const (
	// summaryTurnWindow is how many trailing transcript turns feed the
	// summarizer.
	summaryTurnWindow = 10
	// minSummaryChars is the minimum joined-window length worth
	// summarizing at all.
	minSummaryChars = 50
	// maxContextSummaries bounds how much history rides into a new
	// session's context, however long the stored history grows.
	maxContextSummaries = 3

	defaultSummaryTimeout = 10 * time.Second
)

// Config wires one session's collaborators.
type Config struct {
	Agent   *models.Agent
	UserID  uint
	Profile *models.UserProfile
	Policy  entitlements.Policy

	Microphone    Microphone
	Transport     VoiceTransport
	Summarizer    Summarizer
	Conversations repository.ConversationRepository

	// SummaryTimeout bounds the end-of-session summarization call so a
	// stalled summarizer can never hold up teardown. Zero selects the
	// default.
	SummaryTimeout time.Duration
}

// Controller drives one session's lifecycle:
// Idle → Connecting → Active → Summarizing → Ended. One instance per
// session, driven by a single logical caller; Ended is terminal.
type Controller struct {
	cfg            Config
	summaryTimeout time.Duration

	state      State
	transcript []Message
	startedAt  time.Time
}

// NewController creates a session controller in the Idle state.
func NewController(cfg Config) *Controller {
	timeout := cfg.SummaryTimeout
	if timeout <= 0 {
		timeout = defaultSummaryTimeout
	}
	return &Controller{
		cfg:            cfg,
		summaryTimeout: timeout,
		state:          StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Transcript returns a copy of the accumulated transcript.
func (c *Controller) Transcript() []Message {
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Start acquires the microphone, assembles the session context, and opens
// the transport. Microphone failure returns the controller to Idle with
// ErrPermissionDenied; the context string is built once and never mutated
// mid-session.
func (c *Controller) Start(ctx context.Context) error {
	if c.state != StateIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateConnecting

	if err := c.cfg.Microphone.Acquire(ctx); err != nil {
		c.state = StateIdle
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	sessionContext := c.assembleContext()

	if err := c.cfg.Transport.Start(ctx, c.cfg.Agent.ID, sessionContext); err != nil {
		c.state = StateIdle
		return err
	}

	c.state = StateActive
	c.startedAt = time.Now()
	return nil
}

// HandleTranscript receives one transcript event from the transport.
// Events append to the transcript only on the pro tier; free sessions stay
// voice-only and never accumulate one. The most recent message is persisted
// as the session pointer regardless of tier, so the history list works for
// everyone.
func (c *Controller) HandleTranscript(msg Message) error {
	if c.state != StateActive {
		return fmt.Errorf("%w: transcript event in %s", ErrInvalidTransition, c.state)
	}

	if c.cfg.Policy.CanViewTranscripts() {
		c.transcript = append(c.transcript, msg)
	}

	if err := c.cfg.Conversations.UpsertPointer(c.cfg.UserID, c.cfg.Agent.ID, c.cfg.Agent.Name, msg.Text); err != nil {
		// The pointer is a convenience for the history view; losing one
		// update must not kill a live session.
		log.Printf("failed to update conversation pointer for user %d agent %s: %v", c.cfg.UserID, c.cfg.Agent.ID, err)
	}
	return nil
}

// Stop ends the session. Pro sessions with enough transcript pass through
// Summarizing first; summarization is time-boxed and best-effort, so a
// failure or timeout is logged and teardown proceeds regardless. Ended is
// terminal for this instance.
func (c *Controller) Stop(ctx context.Context) error {
	if c.state != StateActive {
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, c.state)
	}

	if c.cfg.Policy.ShouldSummarize() {
		if window := c.summaryWindow(); len(window) > minSummaryChars {
			c.state = StateSummarizing
			c.summarizeAndRecord(ctx, window)
		}
	}

	c.state = StateEnded

	if err := c.cfg.Transport.Stop(ctx); err != nil {
		log.Printf("voice transport stop failed for agent %s: %v", c.cfg.Agent.ID, err)
	}
	return nil
}

// summaryWindow joins the trailing transcript turns for the summarizer.
func (c *Controller) summaryWindow() string {
	start := len(c.transcript) - summaryTurnWindow
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, len(c.transcript)-start)
	for _, m := range c.transcript[start:] {
		lines = append(lines, m.Role+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

func (c *Controller) summarizeAndRecord(ctx context.Context, window string) {
	sctx, cancel := context.WithTimeout(ctx, c.summaryTimeout)
	defer cancel()

	summary, err := c.cfg.Summarizer.Summarize(sctx, window)
	if err != nil {
		log.Printf("failed to summarize conversation with agent %s: %v", c.cfg.Agent.ID, err)
		return
	}

	err = c.cfg.Conversations.AppendSummary(&models.ConversationSummary{
		UserID:      c.cfg.UserID,
		AgentID:     c.cfg.Agent.ID,
		SummaryText: summary,
	})
	if err != nil {
		log.Printf("failed to store conversation summary for agent %s: %v", c.cfg.Agent.ID, err)
	}
}
