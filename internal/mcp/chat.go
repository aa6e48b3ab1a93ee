package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/session"
)

// ChatInput is the argument schema for mentora_chat.
type ChatInput struct {
	Message   string `json:"message" jsonschema:"the question or message for the mentor"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation to continue; omit to start a new one"`
}

func (s *Server) registerChat() error {
	schema, err := jsonschema.For[ChatInput](nil)
	if err != nil {
		return fmt.Errorf("schema for mentora_chat: %w", err)
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "mentora_chat",
		Description: "Ask the study mentor a question. Replies in the learner's " +
			"language and remembers the conversation. The result ends with a " +
			"session_id line; pass it back to continue the same conversation.",
		InputSchema: schema,
	}, s.Chat)
	return nil
}

// Chat handles the mentora_chat tool call.
func (s *Server) Chat(ctx context.Context, req *mcp.CallToolRequest, in ChatInput) (*mcp.CallToolResult, any, error) {
	sessionID := uuid.Nil
	if in.SessionID != "" {
		id, err := uuid.Parse(in.SessionID)
		if err != nil {
			return errorResult("session_id must be a UUID"), nil, nil
		}
		sessionID = id
	}

	reply, err := s.chat.Ask(ctx, s.userID, sessionID, in.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return errorResult("message is required"), nil, nil
	case errors.Is(err, session.ErrNotFound):
		return errorResult("unknown session_id"), nil, nil
	case errors.Is(err, gemini.ErrAllKeysFailed) && reply != nil:
		// The reply carries the localized apology.
		return errorResult(reply.Text), nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("mentora_chat: %w", err)
	}

	return textResult(fmt.Sprintf("%s\n\nsession_id: %s", reply.Text, reply.SessionID)), nil, nil
}
