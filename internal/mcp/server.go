// Package mcp exposes the mentor over the Model Context Protocol, so
// agent clients (editors, assistants) can study through the same
// services the web and terminal surfaces use.
//
// Four tools are registered: mentora_chat carries a conversation with
// the mentor, mentora_mindmap generates a study mind map,
// mentora_stats reports progress, and mentora_sessions lists saved
// conversations. Handlers follow the net/http style: typed input
// structs with inferred JSON schemas, results built inline. Mistakes
// the calling agent can correct (bad arguments, exhausted AI keys)
// come back as error results; everything else is a protocol error.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/session"
)

// Config carries the services the tools are served from. All four
// services are required; the tools are not individually optional.
type Config struct {
	Chat     *chat.Service
	MindMaps *mindmap.Service
	Sessions *session.Store
	Points   *gamification.Store

	// UserID is the identity every tool call acts as. The stdio
	// server is single-user by construction.
	UserID uuid.UUID

	Lang    i18n.Lang
	Version string
	Logger  *slog.Logger
}

func (c Config) validate() error {
	if c.Chat == nil {
		return errors.New("mcp: chat service is required")
	}
	if c.MindMaps == nil {
		return errors.New("mcp: mind map service is required")
	}
	if c.Sessions == nil {
		return errors.New("mcp: session store is required")
	}
	if c.Points == nil {
		return errors.New("mcp: points store is required")
	}
	if c.UserID == uuid.Nil {
		return errors.New("mcp: user id is required")
	}
	if c.Version == "" {
		return errors.New("mcp: version is required")
	}
	return nil
}

// Server wraps the SDK server with Mentora's services.
type Server struct {
	server *mcp.Server

	chat     *chat.Service
	maps     *mindmap.Service
	sessions *session.Store
	points   *gamification.Store
	userID   uuid.UUID
	lang     i18n.Lang
	version  string
	logger   *slog.Logger
}

// NewServer builds the server and registers the tools.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lang := cfg.Lang
	if lang == "" {
		lang = i18n.Default()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "mentora",
			Version: cfg.Version,
		}, nil),
		chat:     cfg.Chat,
		maps:     cfg.MindMaps,
		sessions: cfg.Sessions,
		points:   cfg.Points,
		userID:   cfg.UserID,
		lang:     lang,
		version:  cfg.Version,
		logger:   logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run serves the protocol over stdio until the client disconnects or
// the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", "version", s.version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() error {
	if err := s.registerChat(); err != nil {
		return err
	}
	if err := s.registerMindMap(); err != nil {
		return err
	}
	return s.registerProgress()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult reports a mistake the calling agent can correct.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
