package resource

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/gamification"
)

// Service ties fetching, storage and points together.
type Service struct {
	reader  *Reader
	crawler *Crawler
	store   *Store
	points  *gamification.Store // nil = no points awarded
	logger  *slog.Logger
}

// NewService wires the resource pipeline. points may be nil.
func NewService(reader *Reader, crawler *Crawler, store *Store, points *gamification.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, crawler: crawler, store: store, points: points, logger: logger}
}

// Add fetches one page and saves it for the user.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, rawURL string) (*Resource, error) {
	ex, err := s.reader.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	res, err := s.store.Add(ctx, userID, ex)
	if err != nil {
		return nil, err
	}
	s.award(ctx, userID, res.ID)
	return res, nil
}

// Import crawls a site and saves every extracted page, skipping URLs
// the user already has. Returns how many resources were added.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, start string, depth, maxPages int) (int, error) {
	pages, err := s.crawler.Crawl(ctx, start, depth, maxPages)
	if err != nil && len(pages) == 0 {
		return 0, err
	}

	added := 0
	for i := range pages {
		res, addErr := s.store.Add(ctx, userID, &pages[i])
		if addErr != nil {
			if errors.Is(addErr, ErrDuplicate) {
				continue
			}
			return added, addErr
		}
		added++
		s.award(ctx, userID, res.ID)
	}
	return added, err
}

// List returns the user's saved resources.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Resource, error) {
	return s.store.List(ctx, userID, limit)
}

// Delete removes one saved resource.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.Delete(ctx, id, userID)
}

// award records resource points best-effort.
func (s *Service) award(ctx context.Context, userID, resourceID uuid.UUID) {
	if s.points == nil {
		return
	}
	if _, err := s.points.Record(ctx, userID, gamification.KindResourceAdded, &resourceID); err != nil {
		s.logger.Warn("recording resource points",
			"resource_id", resourceID, "error", err)
	}
}
