package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
)

// MindMapInput is the argument schema for mentora_mindmap.
type MindMapInput struct {
	Topic string `json:"topic" jsonschema:"the subject to map, e.g. Fotossíntese or Revolução Francesa"`
}

func (s *Server) registerMindMap() error {
	schema, err := jsonschema.For[MindMapInput](nil)
	if err != nil {
		return fmt.Errorf("schema for mentora_mindmap: %w", err)
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "mentora_mindmap",
		Description: "Generate a study mind map for a topic. Returns the map " +
			"as an ASCII tree. The map is saved to the learner's collection.",
		InputSchema: schema,
	}, s.MindMap)
	return nil
}

// MindMap handles the mentora_mindmap tool call.
func (s *Server) MindMap(ctx context.Context, req *mcp.CallToolRequest, in MindMapInput) (*mcp.CallToolResult, any, error) {
	mm, err := s.maps.Generate(ctx, s.userID, in.Topic)
	switch {
	case errors.Is(err, mindmap.ErrEmptyTopic):
		return errorResult("topic is required"), nil, nil
	case errors.Is(err, gemini.ErrAllKeysFailed):
		return errorResult(i18n.T(s.lang, "error.ai.unavailable")), nil, nil
	case errors.Is(err, mindmap.ErrBadMapJSON),
		errors.Is(err, mindmap.ErrTooDeep),
		errors.Is(err, mindmap.ErrTooWide),
		errors.Is(err, mindmap.ErrTooManyNodes):
		return errorResult("the generated map was unusable; try the topic again or rephrase it"), nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("mentora_mindmap: %w", err)
	}

	return textResult(mindmap.ASCIITree(mm.Root)), nil, nil
}
