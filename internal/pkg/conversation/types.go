package conversation

import "context"

// State is the lifecycle position of one session instance.
type State string

const (
	StateIdle        State = "idle"
	StateConnecting  State = "connecting"
	StateActive      State = "active"
	StateSummarizing State = "summarizing"
	StateEnded       State = "ended"
)

const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one transcript entry in arrival order.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Microphone is the audio-capture capability. Acquisition can block on a
// user prompt, so it takes a context.
type Microphone interface {
	Acquire(ctx context.Context) error
}

// VoiceTransport is the external conversation channel. Its wire protocol is
// not this package's business: it emits transcript events upward and
// exposes start/stop.
type VoiceTransport interface {
	Start(ctx context.Context, agentID, sessionContext string) error
	Stop(ctx context.Context) error
}

// Summarizer condenses a transcript window into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, conversationText string) (string, error)
}
