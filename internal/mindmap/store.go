package mindmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mentora-app/mentora/internal/database"
)

// mapColumns is the full column list for the mindmaps table.
const mapColumns = `id, user_id, topic, map, created_at`

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 50

// Store persists mind maps in PostgreSQL.
type Store struct {
	q      database.Querier
	logger *slog.Logger
}

// NewStore creates a Store backed by q.
func NewStore(q database.Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{q: q, logger: logger}
}

// Create stores a validated map and returns it with ID and timestamp set.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, topic string, root *Node) (*MindMap, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encode mind map: %w", err)
	}

	m := &MindMap{UserID: userID, Topic: topic, Root: root}
	err = s.q.QueryRow(ctx,
		`INSERT INTO mindmaps (user_id, topic, map)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		userID, topic, payload).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create mind map: %w", err)
	}

	s.logger.Debug("created mind map",
		"mindmap_id", m.ID, "topic", topic, "nodes", m.NodeCount())
	return m, nil
}

// Get returns one map with its full tree. Maps owned by other users
// are reported as missing.
func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*MindMap, error) {
	var (
		m       MindMap
		payload []byte
	)
	err := s.q.QueryRow(ctx,
		`SELECT `+mapColumns+` FROM mindmaps WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&m.ID, &m.UserID, &m.Topic, &payload, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get mind map %s: %w", id, err)
	}

	if err := json.Unmarshal(payload, &m.Root); err != nil {
		return nil, fmt.Errorf("decode mind map %s: %w", id, err)
	}
	return &m, nil
}

// List returns the user's maps, newest first, without their trees.
func (s *Store) List(ctx context.Context, userID uuid.UUID, limit int) ([]MindMap, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.q.Query(ctx,
		`SELECT id, user_id, topic, created_at
		 FROM mindmaps
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list mind maps: %w", err)
	}
	defer rows.Close()

	var maps []MindMap
	for rows.Next() {
		var m MindMap
		if err := rows.Scan(&m.ID, &m.UserID, &m.Topic, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mind map: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mind maps: %w", err)
	}
	return maps, nil
}

// Delete removes one of the user's maps.
func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM mindmaps WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete mind map %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
