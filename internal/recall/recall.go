// Package recall gives the mentor memory across sessions.
//
// Every persisted chat message gets one embedding row; when the user
// asks something new, the closest messages from other sessions are
// folded into the system instruction. The whole feature is
// best-effort: embedding failures are logged and skipped, and a chat
// request never fails because recall did.
package recall

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mentora-app/mentora/internal/database"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/session"
)

const (
	// VectorDim matches the vector(768) column and the embedding model
	// output size.
	VectorDim = 768

	// DefaultK is how many neighbours Search returns when the caller
	// passes no limit.
	DefaultK = 3

	// MaxDistance is the cosine-distance cutoff. Neighbours further
	// away than this are noise, not context.
	MaxDistance = 0.5

	// snippetMaxRunes bounds each snippet inside the context block.
	snippetMaxRunes = 240

	// embedTimeout bounds a single embedding call.
	embedTimeout = 10 * time.Second
)

// Result is one recalled message.
type Result struct {
	MessageID uuid.UUID
	SessionID uuid.UUID
	Role      string
	Content   string
	Distance  float64
	CreatedAt time.Time
}

// Recall stores and searches message embeddings.
type Recall struct {
	q      database.Querier
	ai     *gemini.Client
	logger *slog.Logger
}

// New creates a Recall backed by q and the AI client's embedding group.
func New(q database.Querier, ai *gemini.Client, logger *slog.Logger) *Recall {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recall{q: q, ai: ai, logger: logger}
}

// Remember embeds one stored message and upserts its vector.
// Best-effort: failures are logged, never returned.
func (r *Recall) Remember(ctx context.Context, userID uuid.UUID, msg session.Message) {
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return
	}

	embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	vecs, err := r.ai.Embed(embedCtx, []string{text})
	if err != nil || len(vecs) == 0 {
		r.logger.Warn("skipping message embedding",
			"message_id", msg.ID, "error", err)
		return
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO message_embeddings (message_id, user_id, session_id, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (message_id) DO UPDATE SET embedding = EXCLUDED.embedding`,
		msg.ID, userID, msg.SessionID, pgvector.NewVector(vecs[0]))
	if err != nil {
		r.logger.Warn("storing message embedding",
			"message_id", msg.ID, "error", err)
	}
}

// Search returns up to k messages from the user's other sessions,
// closest first. excludeSession keeps the current conversation from
// recalling itself; pass uuid.Nil to search everything.
func (r *Recall) Search(ctx context.Context, userID, excludeSession uuid.UUID, query string, k int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultK
	}

	embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	vecs, err := r.ai.Embed(embedCtx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	vec := pgvector.NewVector(vecs[0])

	rows, err := r.q.Query(ctx,
		`SELECT e.message_id, e.session_id, m.role, m.content, m.created_at,
		        e.embedding <=> $1 AS distance
		 FROM message_embeddings e
		 JOIN messages m ON m.id = e.message_id
		 WHERE e.user_id = $2 AND e.session_id <> $3
		 ORDER BY e.embedding <=> $1
		 LIMIT $4`,
		vec, userID, excludeSession, k)
	if err != nil {
		return nil, fmt.Errorf("searching embeddings: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.MessageID, &res.SessionID, &res.Role,
			&res.Content, &res.CreatedAt, &res.Distance); err != nil {
			return nil, fmt.Errorf("scanning recall result: %w", err)
		}
		if res.Distance > MaxDistance {
			continue
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching embeddings: %w", err)
	}
	return results, nil
}

// ContextBlock formats recalled messages for the system instruction.
// Returns "" when there is nothing worth injecting.
func ContextBlock(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Contexto de conversas anteriores do aluno:")
	for _, res := range results {
		b.WriteString("\n- ")
		if res.Role == session.RoleModel {
			b.WriteString("Mentor: ")
		} else {
			b.WriteString("Aluno: ")
		}
		b.WriteString(snippet(res.Content))
	}
	return b.String()
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= snippetMaxRunes {
		return s
	}
	return string(runes[:snippetMaxRunes]) + "…"
}
