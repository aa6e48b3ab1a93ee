//go:build integration
// +build integration

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/testutil"
)

const cliFallbackAnswer = "A fotossíntese converte luz em energia química nos cloroplastos."

const cliMapJSON = `{"topic":"Equações","root":{"label":"Equações","children":[{"label":"1º grau"},{"label":"2º grau"}]}}`

// freshCLIDatabase creates an empty database in the test container so
// every command runs the real migration path instead of hitting the
// pre-migrated test schema.
func freshCLIDatabase(t *testing.T, db *testutil.TestDBContainer, name string) string {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(), "CREATE DATABASE "+name)
	require.NoError(t, err)

	u, err := url.Parse(db.ConnStr)
	require.NoError(t, err)
	u.Path = "/" + name
	return u.String()
}

// runCLI executes one command line against the shared root command and
// returns everything it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// TestCLI_EndToEnd walks the terminal surface the way a student would:
// migrate, ask twice in the same conversation, check progress, draw a
// mind map, then clean up.
func TestCLI_EndToEnd(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	fake := testutil.NewFakeGemini(t, cliFallbackAnswer)
	fake.Respond("equações", cliMapJSON)

	dbURL := freshCLIDatabase(t, db, "mentora_cli")

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATABASE_URL", dbURL)
	t.Setenv("MENTORA_AI_BASE_URL", fake.URL())
	t.Setenv("MENTORA_CHAT_API_KEYS", "chat-key-1")
	t.Setenv("MENTORA_MINDMAP_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MENTORA_LANG", "")
	t.Setenv("MENTORA_LOG_LEVEL", "error")

	t.Cleanup(func() { askPlain = false })

	out, err := runCLI(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrações aplicadas.")

	out, err = runCLI(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma conversa salva.")

	out, err = runCLI(t, "ask", "--plain", "O", "que", "é", "fotossíntese?")
	require.NoError(t, err)
	assert.Contains(t, out, cliFallbackAnswer)
	assert.NotEqual(t, uuid.Nil, activeSession(), "ask should leave a session pointer behind")

	// The follow-up lands in the same conversation: the model sees the
	// previous exchange in its transcript.
	out, err = runCLI(t, "ask", "--plain", "Pode", "dar", "um", "exemplo?")
	require.NoError(t, err)
	assert.Contains(t, out, cliFallbackAnswer)

	generates := fake.CallsFor("generate")
	require.NotEmpty(t, generates)
	last := generates[len(generates)-1]
	assert.GreaterOrEqual(t, len(last.Transcript), 3, "follow-up should carry the history")

	out, err = runCLI(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "fotossíntese")
	require.NotContains(t, out, "Nenhuma conversa salva.")

	var sessionID string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && strings.HasPrefix(line, ">") {
			sessionID = fields[1]
		}
	}
	require.NotEmpty(t, sessionID, "active session should be marked in the list:\n%s", out)

	out, err = runCLI(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Seu progresso")
	assert.Contains(t, out, "Iniciante")
	assert.Contains(t, out, "Primeira conversa")

	out, err = runCLI(t, "mindmap", "equações")
	require.NoError(t, err)
	assert.Contains(t, out, "Equações")
	assert.Contains(t, out, "└── 2º grau")

	out, err = runCLI(t, "resources", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum recurso guardado.")

	out, err = runCLI(t, "sessions", "rm", sessionID)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversa removida.")
	assert.Equal(t, uuid.Nil, activeSession(), "removing the active session should clear the pointer")

	out, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Mentora v")
}

// TestCLI_AskReportsOutage exercises the key-exhaustion path end to
// end: every key fails, the user sees the localized apology and the
// command exits non-zero.
func TestCLI_AskReportsOutage(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	fake := testutil.NewFakeGemini(t, cliFallbackAnswer)
	fake.FailKey("down-key-1")

	dbURL := freshCLIDatabase(t, db, "mentora_cli_outage")

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATABASE_URL", dbURL)
	t.Setenv("MENTORA_AI_BASE_URL", fake.URL())
	t.Setenv("MENTORA_CHAT_API_KEYS", "down-key-1")
	t.Setenv("MENTORA_MINDMAP_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MENTORA_LANG", "")
	t.Setenv("MENTORA_LOG_LEVEL", "error")

	t.Cleanup(func() { askPlain = false })

	out, err := runCLI(t, "ask", "--plain", "alguém", "aí?")
	require.Error(t, err)
	assert.Contains(t, out, "dificuldades técnicas")
	assert.Equal(t, uuid.Nil, activeSession(), "a failed exchange should not pin the session")
}

// TestCLI_MissingKeys verifies AI commands refuse to start without
// credentials while data commands still work.
func TestCLI_MissingKeys(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	dbURL := freshCLIDatabase(t, db, "mentora_cli_keyless")

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATABASE_URL", dbURL)
	t.Setenv("MENTORA_AI_BASE_URL", "")
	t.Setenv("MENTORA_CHAT_API_KEYS", "")
	t.Setenv("MENTORA_MINDMAP_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MENTORA_LANG", "")
	t.Setenv("MENTORA_LOG_LEVEL", "error")

	t.Cleanup(func() { askPlain = false })

	_, err := runCLI(t, "ask", "--plain", "oi")
	require.Error(t, err)

	out, err := runCLI(t, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma conversa salva.")

	out, err = runCLI(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Seu progresso")
}
