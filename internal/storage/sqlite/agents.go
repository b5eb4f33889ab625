package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

type AgentRepo struct {
	db *sql.DB
}

func NewAgentRepo(db *sql.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

func (r *AgentRepo) Get(ctx context.Context, id string) (core.Agent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, agent_type, voice_settings, personality, knowledge_categories, created_at
		 FROM agents WHERE id = ?`, id)

	agent, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Agent{}, fmt.Errorf("%w: %s", core.ErrAgentNotFound, id)
	}
	return agent, err
}

func (r *AgentRepo) List(ctx context.Context) ([]core.Agent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, agent_type, voice_settings, personality, knowledge_categories, created_at
		 FROM agents ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []core.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

func (r *AgentRepo) Save(ctx context.Context, agent core.Agent) error {
	voice, err := json.Marshal(agent.Voice)
	if err != nil {
		return err
	}
	personality, err := json.Marshal(agent.Personality)
	if err != nil {
		return err
	}
	tags, err := json.Marshal(agent.KnowledgeTags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO agents (id, name, agent_type, voice_settings, personality, knowledge_categories, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   agent_type = excluded.agent_type,
		   voice_settings = excluded.voice_settings,
		   personality = excluded.personality,
		   knowledge_categories = excluded.knowledge_categories`,
		agent.ID, agent.Name, string(agent.Type), voice, personality, tags, agent.CreatedAt)
	return err
}

func (r *AgentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrAgentNotFound, id)
	}
	return nil
}

func (r *AgentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}

// SeedDefault inserts the stock support agent into an empty store so a
// fresh install can hold a conversation immediately.
func (r *AgentRepo) SeedDefault(ctx context.Context) error {
	n, err := r.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	agent := core.Agent{
		ID:   "support_agent",
		Name: "AI Assistant",
		Type: core.AgentSupport,
		Voice: core.VoiceSettings{
			Language: "en",
			Gender:   "female",
			Tone:     "helpful",
			Speed:    1.0,
		},
		Personality: core.Personality{
			Greeting:       "Hello! I'm your AI assistant. I can help you with questions based on the documents I have access to.",
			Style:          "helpful, professional, document-focused",
			Expertise:      "Provide accurate information based only on available documents",
			ResponseLength: "concise",
			Empathy:        "professional",
		},
		KnowledgeTags: []string{"support", "general", "documentation"},
		CreatedAt:     time.Now().UTC(),
	}

	log.FromCtx(ctx).Info().Str("agent", agent.ID).Msg("seeding default agent")
	return r.Save(ctx, agent)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (core.Agent, error) {
	var (
		agent       core.Agent
		agentType   string
		voice       []byte
		personality []byte
		tags        []byte
	)
	if err := row.Scan(&agent.ID, &agent.Name, &agentType, &voice, &personality, &tags, &agent.CreatedAt); err != nil {
		return core.Agent{}, err
	}

	agent.Type = core.AgentType(agentType)
	if err := json.Unmarshal(voice, &agent.Voice); err != nil {
		return core.Agent{}, fmt.Errorf("decode voice settings: %w", err)
	}
	if err := json.Unmarshal(personality, &agent.Personality); err != nil {
		return core.Agent{}, fmt.Errorf("decode personality: %w", err)
	}
	if err := json.Unmarshal(tags, &agent.KnowledgeTags); err != nil {
		return core.Agent{}, fmt.Errorf("decode knowledge categories: %w", err)
	}
	return agent, nil
}
