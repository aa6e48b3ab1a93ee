package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/database"
)

// resourceColumns is the full column list for the resources table.
const resourceColumns = `id, user_id, url, title, site_name, excerpt, created_at`

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 100

// Store persists resources in PostgreSQL.
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

// Add stores one extract as the user's resource. Saving the same URL
// twice for the same user returns ErrDuplicate.
func (s *Store) Add(ctx context.Context, userID uuid.UUID, ex *Extract) (*Resource, error) {
	title := strings.TrimSpace(ex.Title)
	if title == "" {
		title = ex.URL
	}

	res := &Resource{
		UserID:   userID,
		URL:      ex.URL,
		Title:    title,
		SiteName: ex.SiteName,
		Excerpt:  ex.Excerpt,
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO resources (user_id, url, title, site_name, excerpt)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		userID, ex.URL, title, ex.SiteName, ex.Excerpt).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if errors.Is(database.MapError(err), database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, ex.URL)
		}
		return nil, fmt.Errorf("add resource: %w", err)
	}

	s.logger.Debug("added resource", "resource_id", res.ID, "url", ex.URL)
	return res, nil
}

// List returns the user's resources, newest first.
func (s *Store) List(ctx context.Context, userID uuid.UUID, limit int) ([]Resource, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.q.Query(ctx,
		`SELECT `+resourceColumns+`
		 FROM resources
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.UserID, &res.URL, &res.Title,
			&res.SiteName, &res.Excerpt, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// Delete removes one of the user's resources.
func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM resources WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resource %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
