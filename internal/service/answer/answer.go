package answer

import (
	"context"
	"strings"

	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

// NoEvidenceReply is the deterministic answer for questions the
// knowledge base cannot support. It is returned without consulting any
// model, so the system never hallucinates around missing evidence.
const NoEvidenceReply = "I can only provide information based on our available documentation. Please ask about topics covered in our materials."

// Completer produces a completion for a grounded prompt. Satisfied by
// the provider router.
type Completer interface {
	Complete(ctx context.Context, prompt core.Prompt) (string, error)
}

// Synthesizer turns a user message plus retrieved evidence into a
// grounded reply.
type Synthesizer struct {
	completer Completer
}

func NewSynthesizer(completer Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Answer generates the reply for one turn. An empty retrieval result
// short-circuits to the fixed no-evidence reply; model output is
// cleaned of common artifacts before returning.
func (s *Synthesizer) Answer(ctx context.Context, agent *core.Agent, message string, res core.RetrievalResult) (string, error) {
	if res.Empty() {
		log.FromCtx(ctx).Debug().Str("agent", agent.ID).Msg("no evidence retrieved, answering without model")
		return NoEvidenceReply, nil
	}

	raw, err := s.completer.Complete(ctx, BuildPrompt(agent, message, res))
	if err != nil {
		return "", err
	}
	return cleanResponse(raw), nil
}

// Greeting is the model-free opener for a new conversation, flavored
// by agent type.
func Greeting(agent *core.Agent) string {
	if agent.Personality.Greeting != "" {
		return agent.Personality.Greeting
	}
	switch agent.Type {
	case core.AgentSales:
		return "I'm here to help you with information about our products and services. How can I assist you today?"
	case core.AgentSupport:
		return "I'm here to provide support based on our documentation. How can I help you?"
	default:
		return "I'm here to assist you with information from our knowledge base. What would you like to know?"
	}
}

// cleanResponse strips role-label artifacts models sometimes prepend
// and normalizes degenerate output to the no-evidence reply.
func cleanResponse(text string) string {
	for _, artifact := range []string{"Assistant:", "AI:", "Response:", "Your Response:"} {
		text = strings.ReplaceAll(text, artifact, "")
	}
	text = strings.TrimSpace(text)

	if len(text) < 15 && !strings.Contains(strings.ToLower(text), "documentation") {
		return NoEvidenceReply
	}

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") &&
		!strings.HasSuffix(text, "?") && !strings.HasSuffix(text, ")") &&
		!strings.HasSuffix(text, `"`) {
		text += "."
	}
	return text
}
