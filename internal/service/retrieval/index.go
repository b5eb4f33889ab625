package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

// Index scores stored document chunks against a query by shared-term
// count. Deliberately lexical: no embeddings, no external calls, fully
// deterministic for a given corpus and query.
type Index struct {
	chunks   core.ChunkRepository
	topK     int
	minScore float64
}

func NewIndex(chunks core.ChunkRepository, cfg *config.RetrievalConfig) *Index {
	return &Index{
		chunks:   chunks,
		topK:     cfg.TopK,
		minScore: cfg.MinScore,
	}
}

// Search returns the top-K chunks sharing at least minScore terms with
// the query, restricted to the agent's knowledge categories. An empty
// category set means every chunk is eligible. Ties keep storage
// insertion order, so results are stable across identical calls.
func (x *Index) Search(ctx context.Context, query string, categories []string) (core.RetrievalResult, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return core.RetrievalResult{}, nil
	}

	candidates, err := x.chunks.ChunksByCategories(ctx, categories)
	if err != nil {
		return core.RetrievalResult{}, fmt.Errorf("load chunks: %w", err)
	}

	var scored []core.ScoredChunk
	for _, c := range candidates {
		score := float64(sharedTerms(terms, Terms(c.Text)))
		if score < x.minScore {
			continue
		}
		scored = append(scored, core.ScoredChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > x.topK {
		scored = scored[:x.topK]
	}

	log.FromCtx(ctx).Debug().
		Int("candidates", len(candidates)).
		Int("matched", len(scored)).
		Strs("categories", categories).
		Msg("retrieval search")

	return core.RetrievalResult{Chunks: scored}, nil
}

// Terms lowercases and tokenizes text, dropping terms too short to
// carry meaning.
func Terms(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(w) > 2 {
			terms[w] = true
		}
	}
	return terms
}

func sharedTerms(query, chunk map[string]bool) int {
	n := 0
	for t := range query {
		if chunk[t] {
			n++
		}
	}
	return n
}
