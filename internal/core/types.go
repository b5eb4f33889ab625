package core

import "time"

const (
	EchoName      = "EchoVoice"
	EchoUserAgent = "EchoVoice/0.1"
	EchoVersion   = "0.1.0"
)

// AgentType is an open tag set; the listed values are the ones the
// dashboard offers, but any string is accepted.
type AgentType string

const (
	AgentSupport    AgentType = "support"
	AgentSales      AgentType = "sales"
	AgentHealthcare AgentType = "healthcare"
	AgentSurvey     AgentType = "survey"
	AgentReminder   AgentType = "reminder"
)

type VoiceSettings struct {
	Language string  `json:"language"`
	Gender   string  `json:"gender"`
	Tone     string  `json:"tone"`
	Speed    float64 `json:"speed"`
}

type Personality struct {
	Greeting       string `json:"greeting"`
	Style          string `json:"style"`
	Expertise      string `json:"expertise"`
	ResponseLength string `json:"response_length"`
	Empathy        string `json:"empathy"`
}

// Agent is created by the agent-management collaborator and is read-only
// to the conversation core during a turn.
type Agent struct {
	ID            string        `json:"agent_id"`
	Name          string        `json:"name"`
	Type          AgentType     `json:"agent_type"`
	Voice         VoiceSettings `json:"voice_settings"`
	Personality   Personality   `json:"personality"`
	KnowledgeTags []string      `json:"knowledge_categories"`
	CreatedAt     time.Time     `json:"created_at"`
}

type Document struct {
	ID         string    `json:"doc_id"`
	Title      string    `json:"title"`
	Categories []string  `json:"categories"`
	WordCount  int       `json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentChunk is immutable once created and is destroyed together with
// the owning document. Position is the chunk index within the document.
type DocumentChunk struct {
	DocumentID string
	Title      string
	Position   int
	Text       string
	Categories []string
}

type ScoredChunk struct {
	Chunk DocumentChunk
	Score float64
}

// RetrievalResult is the ordered, per-request outcome of a retrieval
// query. An empty result is a first-class outcome, not a fault.
type RetrievalResult struct {
	Chunks []ScoredChunk
}

func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// Prompt is what an InferenceProvider receives. System carries the
// grounding contract and persona rules, User the context and question.
type Prompt struct {
	System string
	User   string
}

// TurnResult aggregates the outcome of a single conversation turn.
// AudioFile is empty when the turn is text-only or synthesis degraded.
type TurnResult struct {
	TranscribedText string
	ResponseText    string
	AudioFile       string
}
