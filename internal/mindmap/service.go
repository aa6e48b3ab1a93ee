package mindmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/gemini"
)

// mapPrompt demands bare JSON. The limits repeat the package limits so
// a well-behaved model never produces a tree that validation rejects.
const mapPrompt = `Crie um mapa mental de estudo sobre o tema: %q.

Responda APENAS com JSON válido, sem nenhum texto antes ou depois, neste formato exato:
{"topic": "tema", "root": {"label": "tema central", "children": [{"label": "subtópico", "children": []}]}}

Regras:
- No máximo 4 níveis de profundidade, contando a raiz.
- No máximo 8 filhos por nó.
- Rótulos curtos, com até 60 caracteres, em português.
- Organize do geral para o específico.`

// Service generates maps with the AI client and persists them.
type Service struct {
	ai     *gemini.Client
	store  *Store
	points *gamification.Store // nil = no points awarded
	logger *slog.Logger
}

// NewService wires the generation pipeline. points may be nil.
func NewService(ai *gemini.Client, store *Store, points *gamification.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ai: ai, store: store, points: points, logger: logger}
}

// BuildPrompt returns the generation prompt for a topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(mapPrompt, topic)
}

// Generate asks the model for a map of topic, validates it and stores
// it for the user. Points are awarded best-effort after the map is
// safely persisted.
//
// AI failures surface unchanged so callers can recognize
// gemini.ErrAllKeysFailed and show the localized outage message.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, topic string) (*MindMap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if runes := []rune(topic); len(runes) > MaxTopicLen {
		topic = string(runes[:MaxTopicLen])
	}

	raw, err := s.ai.GenerateOnce(ctx, BuildPrompt(topic))
	if err != nil {
		return nil, fmt.Errorf("generate mind map: %w", err)
	}

	parsedTopic, root, err := Parse(raw)
	if err != nil {
		s.logger.Warn("discarding malformed mind map",
			"topic", topic, "response_len", len(raw), "error", err)
		return nil, err
	}
	if parsedTopic == "" {
		parsedTopic = topic
	}

	m, err := s.store.Create(ctx, userID, parsedTopic, root)
	if err != nil {
		return nil, err
	}

	if s.points != nil {
		if _, err := s.points.Record(ctx, userID, gamification.KindMindMapCreated, &m.ID); err != nil {
			s.logger.Warn("recording mind map points",
				"mindmap_id", m.ID, "error", err)
		}
	}

	s.logger.Info("generated mind map",
		"mindmap_id", m.ID, "topic", parsedTopic, "nodes", m.NodeCount())
	return m, nil
}

// Get returns one stored map with its full tree.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*MindMap, error) {
	return s.store.Get(ctx, id, userID)
}

// List returns the user's maps, newest first, without trees.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]MindMap, error) {
	return s.store.List(ctx, userID, limit)
}

// Delete removes one stored map.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.Delete(ctx, id, userID)
}
