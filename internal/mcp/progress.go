package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
)

// StatsInput is the (empty) argument schema for mentora_stats.
type StatsInput struct{}

// SessionsInput is the (empty) argument schema for mentora_sessions.
type SessionsInput struct{}

const sessionListLimit = 100

func (s *Server) registerProgress() error {
	statsSchema, err := jsonschema.For[StatsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for mentora_stats: %w", err)
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "mentora_stats",
		Description: "Report the learner's progress: points, level, study " +
			"streak and earned badges.",
		InputSchema: statsSchema,
	}, s.Stats)

	sessionsSchema, err := jsonschema.For[SessionsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for mentora_sessions: %w", err)
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "mentora_sessions",
		Description: "List the learner's saved conversations, most recent " +
			"first. Each line carries the session_id usable with mentora_chat.",
		InputSchema: sessionsSchema,
	}, s.Sessions)

	return nil
}

// Stats handles the mentora_stats tool call.
func (s *Server) Stats(ctx context.Context, req *mcp.CallToolRequest, _ StatsInput) (*mcp.CallToolResult, any, error) {
	st, err := s.points.Stats(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("mentora_stats: %w", err)
	}
	badges, err := s.points.Badges(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("mentora_stats: %w", err)
	}

	level := gamification.LevelFor(st.Points)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s · %d %s\n",
		i18n.T(s.lang, "stats.level"), level.Name(s.lang),
		st.Points, i18n.T(s.lang, "stats.points"))
	fmt.Fprintf(&b, "%s: %s\n",
		i18n.T(s.lang, "stats.streak"),
		i18n.Tf(s.lang, "stats.streak.days", st.CurrentStreak))

	if len(badges) == 0 {
		fmt.Fprintf(&b, "%s: %s\n",
			i18n.T(s.lang, "stats.badges"), i18n.T(s.lang, "stats.badges.empty"))
	} else {
		names := make([]string, 0, len(badges))
		for _, b := range badges {
			names = append(names, b.ID.Name(s.lang))
		}
		fmt.Fprintf(&b, "%s: %s\n",
			i18n.T(s.lang, "stats.badges"), strings.Join(names, ", "))
	}

	return textResult(b.String()), nil, nil
}

// Sessions handles the mentora_sessions tool call.
func (s *Server) Sessions(ctx context.Context, req *mcp.CallToolRequest, _ SessionsInput) (*mcp.CallToolResult, any, error) {
	list, err := s.sessions.List(ctx, s.userID, true, sessionListLimit, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("mentora_sessions: %w", err)
	}
	if len(list) == 0 {
		return textResult(i18n.T(s.lang, "cli.sessions.empty")), nil, nil
	}

	var b strings.Builder
	for _, sess := range list {
		marker := " "
		if sess.Archived {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s  %s  %s\n",
			marker, sess.ID, sess.UpdatedAt.Format("2006-01-02 15:04"), sess.Title)
	}
	return textResult(b.String()), nil, nil
}
