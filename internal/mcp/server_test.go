package mcp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/session"
)

// testConfig returns a config whose services are inert placeholders.
// Registration and schema tests never invoke them.
func testConfig() Config {
	return Config{
		Chat:     &chat.Service{},
		MindMaps: &mindmap.Service{},
		Sessions: &session.Store{},
		Points:   &gamification.Store{},
		UserID:   uuid.New(),
		Lang:     i18n.LangPT,
		Version:  "test",
	}
}

// connectSession builds a server from cfg and an SDK client joined to
// it over in-memory transports. Both sessions close via t.Cleanup.
func connectSession(t *testing.T, cfg Config) *mcp.ClientSession {
	t.Helper()

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func TestNewServer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing chat", func(c *Config) { c.Chat = nil }},
		{"missing mind maps", func(c *Config) { c.MindMaps = nil }},
		{"missing sessions", func(c *Config) { c.Sessions = nil }},
		{"missing points", func(c *Config) { c.Points = nil }},
		{"missing user", func(c *Config) { c.UserID = uuid.Nil }},
		{"missing version", func(c *Config) { c.Version = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := NewServer(cfg); err == nil {
				t.Error("NewServer() expected error, got nil")
			}
		})
	}

	t.Run("complete config", func(t *testing.T) {
		if _, err := NewServer(testConfig()); err != nil {
			t.Errorf("NewServer() unexpected error: %v", err)
		}
	})
}

func TestListTools(t *testing.T) {
	cs := connectSession(t, testConfig())

	result, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)

	want := []string{"mentora_chat", "mentora_mindmap", "mentora_sessions", "mentora_stats"}
	if !slices.Equal(names, want) {
		t.Errorf("ListTools() = %v, want %v", names, want)
	}
}

func TestListTools_HaveDescriptions(t *testing.T) {
	cs := connectSession(t, testConfig())

	result, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	for _, tool := range result.Tools {
		if tool.Description == "" {
			t.Errorf("tool %q has an empty description", tool.Name)
		}
	}
}

func TestListTools_ChatSchema(t *testing.T) {
	cs := connectSession(t, testConfig())

	result, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	for _, tool := range result.Tools {
		if tool.Name != "mentora_chat" {
			continue
		}
		raw, err := json.Marshal(tool)
		if err != nil {
			t.Fatalf("marshaling tool: %v", err)
		}
		for _, field := range []string{"message", "session_id"} {
			if !strings.Contains(string(raw), field) {
				t.Errorf("mentora_chat schema missing %q:\n%s", field, raw)
			}
		}
		return
	}
	t.Fatal("mentora_chat not registered")
}

func TestCallTool_UnknownTool(t *testing.T) {
	cs := connectSession(t, testConfig())

	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "mentora_teleport",
	})
	if err == nil {
		t.Fatal("CallTool(mentora_teleport) expected error, got nil")
	}
	if !strings.Contains(err.Error(), "mentora_teleport") {
		t.Errorf("error = %q, want it to name the tool", err)
	}
}

// Argument validation happens before any service touches the database,
// so the rejection paths are testable with inert services.
func TestCallTool_RejectsBadArguments(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		wantText string
	}{
		{
			name:     "chat with malformed session id",
			tool:     "mentora_chat",
			args:     map[string]any{"message": "Oi", "session_id": "banana"},
			wantText: "UUID",
		},
		{
			name:     "chat with blank message",
			tool:     "mentora_chat",
			args:     map[string]any{"message": "   "},
			wantText: "message is required",
		},
		{
			name:     "mind map with blank topic",
			tool:     "mentora_mindmap",
			args:     map[string]any{"topic": ""},
			wantText: "topic is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := connectSession(t, testConfig())

			result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      tt.tool,
				Arguments: tt.args,
			})
			if err != nil {
				t.Fatalf("CallTool(%s) unexpected error: %v", tt.tool, err)
			}
			if !result.IsError {
				t.Fatalf("CallTool(%s) should be an error result", tt.tool)
			}

			text, ok := result.Content[0].(*mcp.TextContent)
			if !ok {
				t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
			}
			if !strings.Contains(text.Text, tt.wantText) {
				t.Errorf("error text = %q, want it to contain %q", text.Text, tt.wantText)
			}
		})
	}
}
