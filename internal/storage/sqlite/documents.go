package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/echovoice/internal/core"
)

// DocumentRepo persists documents and their chunks. It also serves as
// the chunk source for retrieval, returning chunks in insertion order.
type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Save writes the document and its chunks in one transaction, so a
// half-ingested document is never visible to retrieval.
func (r *DocumentRepo) Save(ctx context.Context, doc core.Document, chunks []core.DocumentChunk) error {
	categories, err := json.Marshal(doc.Categories)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, categories, word_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, categories, doc.WordCount, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO document_chunks (document_id, position, content) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, doc.ID, c.Position, c.Text); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.Position, err)
		}
	}

	return tx.Commit()
}

func (r *DocumentRepo) List(ctx context.Context) ([]core.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, categories, word_count, created_at FROM documents ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var (
			doc        core.Document
			categories []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &categories, &doc.WordCount, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(categories, &doc.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes the document; its chunks go with it via the cascade.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrDocumentNotFound, id)
	}
	return nil
}

func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// ChunksByCategories returns every chunk whose document shares at
// least one category with the given set; an empty set matches all.
// Ordered by chunk rowid, which is insertion order.
func (r *DocumentRepo) ChunksByCategories(ctx context.Context, categories []string) ([]core.DocumentChunk, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.document_id, d.title, c.position, c.content, d.categories
		 FROM document_chunks c
		 JOIN documents d ON d.id = c.document_id
		 ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	var chunks []core.DocumentChunk
	for rows.Next() {
		var (
			chunk   core.DocumentChunk
			catBlob []byte
		)
		if err := rows.Scan(&chunk.DocumentID, &chunk.Title, &chunk.Position, &chunk.Text, &catBlob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(catBlob, &chunk.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}

		if len(allowed) > 0 && !intersects(allowed, chunk.Categories) {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func intersects(allowed map[string]bool, categories []string) bool {
	for _, c := range categories {
		if allowed[c] {
			return true
		}
	}
	return false
}
