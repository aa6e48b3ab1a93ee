//go:build integration
// +build integration

package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/testutil"
)

func TestStore_AddListDelete(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStore(db.Pool, testutil.DiscardLogger())
	userID := testutil.SeedUser(t, db.Pool)

	first, err := store.Add(ctx, userID, &Extract{
		URL:      "https://guia.example/fotossintese",
		Title:    "Fotossíntese",
		SiteName: "Guia",
		Excerpt:  "Como plantas produzem energia.",
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = store.Add(ctx, userID, &Extract{
		URL:   "https://guia.example/respiracao",
		Title: "Respiração",
	})
	require.NoError(t, err)

	list, err := store.List(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Respiração", list[0].Title, "newest first")

	require.NoError(t, store.Delete(ctx, first.ID, userID))
	list, err = store.List(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_Add_Duplicate(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStore(db.Pool, testutil.DiscardLogger())
	userID := testutil.SeedUser(t, db.Pool)
	other := testutil.SeedUser(t, db.Pool)

	ex := &Extract{URL: "https://guia.example/artigo", Title: "Artigo"}
	_, err := store.Add(ctx, userID, ex)
	require.NoError(t, err)

	_, err = store.Add(ctx, userID, ex)
	assert.ErrorIs(t, err, ErrDuplicate)

	// The same URL is fine for a different user.
	_, err = store.Add(ctx, other, ex)
	assert.NoError(t, err)
}

func TestStore_Add_EmptyTitleFallsBackToURL(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := NewStore(db.Pool, testutil.DiscardLogger())
	userID := testutil.SeedUser(t, db.Pool)

	res, err := store.Add(context.Background(), userID, &Extract{
		URL: "https://guia.example/sem-titulo",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://guia.example/sem-titulo", res.Title)
}

func TestStore_Delete_OwnerScoped(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStore(db.Pool, testutil.DiscardLogger())
	owner := testutil.SeedUser(t, db.Pool)
	stranger := testutil.SeedUser(t, db.Pool)

	res, err := store.Add(ctx, owner, &Extract{URL: "https://guia.example/x", Title: "X"})
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(ctx, res.ID, stranger), ErrNotFound)
	assert.NoError(t, store.Delete(ctx, res.ID, owner))
}

func TestService_Add(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	ctx := context.Background()
	userID := testutil.SeedUser(t, db.Pool)
	points := gamification.New(db.Pool, testutil.DiscardLogger())
	reader := NewReader(srv.Client(), testutil.DiscardLogger())
	svc := NewService(reader, NewCrawler(reader, testutil.DiscardLogger()),
		NewStore(db.Pool, testutil.DiscardLogger()), points, testutil.DiscardLogger())

	res, err := svc.Add(ctx, userID, srv.URL+"/artigo")
	require.NoError(t, err)
	assert.Contains(t, res.Title, "Fotossíntese")

	stats, err := points.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ResourcesAdded)

	// A repeated add surfaces the duplicate, with no extra points.
	_, err = svc.Add(ctx, userID, srv.URL+"/artigo")
	assert.ErrorIs(t, err, ErrDuplicate)

	stats, err = points.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ResourcesAdded)
}

func TestService_Import(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	srv := crawlSite(t)
	ctx := context.Background()
	userID := testutil.SeedUser(t, db.Pool)
	reader := NewReader(nil, testutil.DiscardLogger())
	svc := NewService(reader, NewCrawler(reader, testutil.DiscardLogger()),
		NewStore(db.Pool, testutil.DiscardLogger()), nil, testutil.DiscardLogger())

	added, err := svc.Import(ctx, userID, srv.URL, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	// Importing again only hits duplicates.
	added, err = svc.Import(ctx, userID, srv.URL, 2, 10)
	require.NoError(t, err)
	assert.Zero(t, added)
}
