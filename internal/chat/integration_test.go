//go:build integration
// +build integration

package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/recall"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/testutil"
)

const fallbackAnswer = "A fotossíntese converte luz em energia química nos cloroplastos."

type chatFixture struct {
	svc   *Service
	fake  *testutil.FakeGemini
	db    *testutil.TestDBContainer
	wg    *sync.WaitGroup
	store *session.Store
}

func newChatFixture(t *testing.T, withRecall bool) *chatFixture {
	t.Helper()

	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	fake := testutil.NewFakeGemini(t, fallbackAnswer)
	ai, err := gemini.NewClient(gemini.Config{
		Model:             "gemini-2.0-flash",
		EmbeddingModel:    "text-embedding-004",
		SystemInstruction: "Você é a Mentora, uma mentora de estudos.",
		Temperature:       0.7,
		MaxOutputTokens:   2048,
		ChatKeys:          []string{"chat-key-1", "chat-key-2"},
		MindMapKeys:       []string{"map-key-1"},
		BaseURL:           fake.URL(),
		Logger:            testutil.DiscardLogger(),
	})
	require.NoError(t, err)

	logger := testutil.DiscardLogger()
	sessions := session.New(db.Pool, logger)

	var wg sync.WaitGroup
	cfg := Config{
		AI:       ai,
		Pool:     db.Pool,
		Sessions: sessions,
		Points:   gamification.New(db.Pool, logger),
		Logger:   logger,
		Lang:     "pt-BR",
		WG:       &wg,
	}
	if withRecall {
		cfg.Recall = recall.New(db.Pool, ai, logger)
	}

	svc, err := New(cfg)
	require.NoError(t, err)

	return &chatFixture{svc: svc, fake: fake, db: db, wg: &wg, store: sessions}
}

func TestAsk_NewSession(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	fx.fake.Respond("Crie um título", "Fotossíntese básica")

	reply, err := fx.svc.Ask(ctx, userID, uuid.Nil, "Como funciona a fotossíntese?")
	require.NoError(t, err)

	assert.True(t, reply.SessionNew)
	assert.NotEqual(t, uuid.Nil, reply.SessionID)
	assert.Equal(t, fallbackAnswer, reply.Text)
	assert.Equal(t, "Fotossíntese básica", reply.Title)

	// Both turns are in the transcript, in order.
	msgs, err := fx.store.Messages(ctx, reply.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, session.RoleUser, msgs[0].Role)
	assert.Equal(t, "Como funciona a fotossíntese?", msgs[0].Content)
	assert.Equal(t, session.RoleModel, msgs[1].Role)
	assert.Equal(t, fallbackAnswer, msgs[1].Content)

	// The session row carries the generated title.
	sess, err := fx.store.Get(ctx, reply.SessionID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Fotossíntese básica", sess.Title)

	// New session + message + first day: 5 + 2 + 5.
	assert.Equal(t, 12, reply.Points)
	assert.Contains(t, reply.NewBadges, gamification.BadgeFirstChat)
	assert.Contains(t, reply.NewBadges, gamification.BadgeSelfStarter)
}

func TestAsk_ExistingSession(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	first, err := fx.svc.Ask(ctx, userID, uuid.Nil, "O que é mitose?")
	require.NoError(t, err)

	fx.fake.Respond("e a meiose", "A meiose produz células com metade dos cromossomos.")
	second, err := fx.svc.Ask(ctx, userID, first.SessionID, "E a meiose?")
	require.NoError(t, err)

	assert.False(t, second.SessionNew)
	assert.Equal(t, first.SessionID, second.SessionID)

	// The follow-up request carried the whole transcript.
	calls := fx.fake.CallsFor("generate")
	last := calls[len(calls)-1]
	require.GreaterOrEqual(t, len(last.Transcript), 3)
	assert.Equal(t, "O que é mitose?", last.Transcript[0].Text)

	msgs, err := fx.store.Messages(ctx, first.SessionID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)

	// Only the message points move on a follow-up.
	assert.Equal(t, 2, second.Points)
}

func TestAsk_ForeignSession(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	owner := testutil.SeedUser(t, fx.db.Pool)
	stranger := testutil.SeedUser(t, fx.db.Pool)

	first, err := fx.svc.Ask(ctx, owner, uuid.Nil, "Primeira pergunta")
	require.NoError(t, err)

	_, err = fx.svc.Ask(ctx, stranger, first.SessionID, "Tentando entrar")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAsk_EmptyMessage(t *testing.T) {
	fx := newChatFixture(t, false)
	userID := testutil.SeedUser(t, fx.db.Pool)

	_, err := fx.svc.Ask(context.Background(), userID, uuid.Nil, "   \n ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, fx.fake.Calls())
}

func TestStream_DeliversChunks(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	var chunks []string
	reply, err := fx.svc.Stream(ctx, userID, uuid.Nil, "Explique a Lei de Ohm",
		func(_ context.Context, chunk string) error {
			chunks = append(chunks, chunk)
			return nil
		})
	require.NoError(t, err)

	require.NotEmpty(t, chunks)
	assert.Equal(t, reply.Text, strings.Join(chunks, ""))
	assert.Equal(t, fallbackAnswer, reply.Text)

	msgs, err := fx.store.Messages(ctx, reply.SessionID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestAsk_RotatesOnKeyFailure(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	fx.fake.FailKeyTimes("chat-key-1", 1)

	reply, err := fx.svc.Ask(ctx, userID, uuid.Nil, "Pergunta com chave ruim")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, reply.Text)

	calls := fx.fake.CallsFor("generate")
	require.GreaterOrEqual(t, len(calls), 2)
	assert.True(t, calls[0].Failed)
	assert.Equal(t, "chat-key-1", calls[0].Key)
	assert.Equal(t, "chat-key-2", calls[1].Key)
}

func TestAsk_AllKeysFailed(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	fx.fake.FailKey("chat-key-1")
	fx.fake.FailKey("chat-key-2")

	reply, err := fx.svc.Ask(ctx, userID, uuid.Nil, "Ninguém vai responder")
	require.ErrorIs(t, err, gemini.ErrAllKeysFailed)
	require.NotNil(t, reply)
	assert.Equal(t, i18n.T("pt-BR", "error.ai.unavailable"), reply.Text)

	// The failed exchange is not persisted.
	msgs, err := fx.store.Messages(ctx, reply.SessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAsk_EmptyModelResponse(t *testing.T) {
	fx := newChatFixture(t, false)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	fx.fake.Respond("sem resposta", "")

	reply, err := fx.svc.Ask(ctx, userID, uuid.Nil, "Pergunta sem resposta")
	require.NoError(t, err)
	assert.Equal(t, i18n.T("pt-BR", "error.ai.unavailable"), reply.Text)

	// The fallback text is persisted so the transcript stays coherent.
	msgs, err := fx.store.Messages(ctx, reply.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, reply.Text, msgs[1].Content)
}

func TestAsk_RecallInjectsContext(t *testing.T) {
	fx := newChatFixture(t, true)
	ctx := context.Background()
	userID := testutil.SeedUser(t, fx.db.Pool)

	axis := func(i int) []float32 {
		vec := make([]float32, recall.VectorDim)
		vec[i] = 1
		return vec
	}

	question := "Como funciona a fotossíntese?"
	fx.fake.SetVector(question, axis(0))
	fx.fake.SetVector(fallbackAnswer, axis(0))

	first, err := fx.svc.Ask(ctx, userID, uuid.Nil, question)
	require.NoError(t, err)
	fx.wg.Wait() // embeddings are written in the background

	followUp := "Quais organelas participam da fotossíntese?"
	fx.fake.SetVector(followUp, axis(0))

	second, err := fx.svc.Ask(ctx, userID, uuid.Nil, followUp)
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)
	fx.wg.Wait()

	// The second request's system instruction carries the recalled turn.
	calls := fx.fake.CallsFor("generate")
	var sawContext bool
	for _, c := range calls {
		if c.UserMessage == followUp && strings.Contains(c.System, "Contexto de conversas anteriores") {
			sawContext = true
			assert.Contains(t, c.System, "fotossíntese")
		}
	}
	assert.True(t, sawContext, "recall context should reach the model")
}
