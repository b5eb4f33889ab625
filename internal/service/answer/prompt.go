package answer

import (
	"fmt"
	"strings"

	"github.com/sandevgo/echovoice/internal/core"
)

const systemTemplate = `You are representing the organization that created the documents provided below. Speak as "we" and "our".

CRITICAL RULES:
1. ONLY use information from the Document Content below
2. When asked about differences, uniqueness, or comparisons, extract SPECIFIC features, numbers, and capabilities from the documents
3. Speak as the organization: use "we", "our", "us"
4. If documents contain NO relevant information, say: "I can only provide information based on our available documentation."
5. Be SPECIFIC - mention actual features, numbers, capabilities from the documents
6. %s, but pack them with ACTUAL INFORMATION from documents
7. Never say generic things like "I'm here to help" - always provide real content from documents

Your role: %s
Communication style: %s
Empathy level: %s`

const userTemplate = `DOCUMENT CONTENT:
%s

END OF DOCUMENT CONTENT

User Question: %s

TASK: Answer using SPECIFIC details from the documents above. If asked about differences or uniqueness, extract and mention CONCRETE features, numbers, or capabilities. Speak as the organization representative using "we/our".

Response:`

// BuildPrompt assembles the grounding prompt: the persona's role,
// style, empathy and response-length preferences go into the system
// text, and every retrieved chunk is embedded verbatim with the model
// constrained to answer only from that content.
func BuildPrompt(agent *core.Agent, message string, res core.RetrievalResult) core.Prompt {
	return core.Prompt{
		System: fmt.Sprintf(systemTemplate,
			lengthRule(agent), agentRole(agent), agentStyle(agent), agentEmpathy(agent)),
		User: fmt.Sprintf(userTemplate, formatContext(res), message),
	}
}

func formatContext(res core.RetrievalResult) string {
	var b strings.Builder
	for i, sc := range res.Chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if sc.Chunk.Title != "" {
			fmt.Fprintf(&b, "[%s]\n", sc.Chunk.Title)
		}
		b.WriteString(sc.Chunk.Text)
	}
	return b.String()
}

func agentRole(agent *core.Agent) string {
	if agent != nil && agent.Personality.Expertise != "" {
		return agent.Personality.Expertise
	}
	return "Represent the organization and provide information from our documents"
}

func agentStyle(agent *core.Agent) string {
	if agent != nil && agent.Personality.Style != "" {
		return agent.Personality.Style
	}
	return "helpful, professional, document-focused"
}

func agentEmpathy(agent *core.Agent) string {
	if agent != nil && agent.Personality.Empathy != "" {
		return agent.Personality.Empathy
	}
	return "professional"
}

// lengthRule turns the persona's response-length preference into the
// concrete sentence budget enforced by the system prompt.
func lengthRule(agent *core.Agent) string {
	length := ""
	if agent != nil {
		length = agent.Personality.ResponseLength
	}
	switch length {
	case "short", "concise":
		return "Keep responses 1-2 sentences"
	case "detailed", "long":
		return "Keep responses 3-5 sentences"
	default:
		return "Keep responses 2-4 sentences"
	}
}
