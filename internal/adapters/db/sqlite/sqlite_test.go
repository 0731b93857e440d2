package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan198205/lekia-translations-sub000/internal/adapters/db/sqlite"
	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

func newDB(t *testing.T) *sqlTestRepos {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &sqlTestRepos{
		uploads:      sqlite.NewUploadRepo(db),
		items:        sqlite.NewItemRepo(db),
		batches:      sqlite.NewBatchRepo(db),
		translations: sqlite.NewTranslationRepo(db),
		glossary:     sqlite.NewGlossaryRepo(db),
		settings:     sqlite.NewSettingsRepo(db),
	}
}

type sqlTestRepos struct {
	uploads      *sqlite.UploadRepo
	items        *sqlite.ItemRepo
	batches      *sqlite.BatchRepo
	translations *sqlite.TranslationRepo
	glossary     *sqlite.GlossaryRepo
	settings     *sqlite.SettingsRepo
}

func (r *sqlTestRepos) seed(t *testing.T, n int) (*domain.Upload, []*domain.Item) {
	t.Helper()
	ctx := context.Background()
	u := &domain.Upload{Filename: "f.csv", JobType: domain.JobTypeProductTexts, TotalCount: n}
	require.NoError(t, r.uploads.Create(ctx, u))
	items := make([]*domain.Item, n)
	for i := range items {
		items[i] = &domain.Item{UploadID: u.ID, Position: i, Name: "item", SourceText: "text"}
	}
	require.NoError(t, r.items.InsertBatch(ctx, items))
	return u, items
}

func TestUploadRoundTrip(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()

	u, _ := r.seed(t, 2)
	require.NotZero(t, u.ID)

	got, err := r.uploads.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Filename, got.Filename)
	assert.Equal(t, domain.JobTypeProductTexts, got.JobType)
	assert.Equal(t, 2, got.TotalCount)
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := r.uploads.Get(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemStatusAndOptimizedWrites(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()
	_, items := r.seed(t, 1)
	id := items[0].ID

	require.NoError(t, r.items.UpdateStatus(ctx, id, domain.StatusOptimizing, ""))
	got, err := r.items.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOptimizing, got.Status)

	require.NoError(t, r.items.SetOptimized(ctx, id, "## better", domain.StatusOptimized))
	got, err = r.items.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOptimized, got.Status)
	assert.Equal(t, "## better", got.OptimizedText)
	assert.Empty(t, got.ErrorMessage)

	require.NoError(t, r.items.UpdateStatus(ctx, id, domain.StatusError, "backend gone"))
	got, err = r.items.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "backend gone", got.ErrorMessage)
}

func TestBatchMembershipAndSelection(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()
	u, items := r.seed(t, 3)

	b := &domain.Batch{UploadID: u.ID, Name: "batch", JobType: u.JobType}
	require.NoError(t, r.batches.Create(ctx, b, []int64{items[0].ID, items[2].ID}))
	require.NotZero(t, b.ID)
	assert.Equal(t, domain.BatchPending, b.Status)

	all, err := r.batches.ListItems(ctx, b.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, items[0].ID, all[0].ID)
	assert.Equal(t, items[2].ID, all[1].ID)

	// Narrowing with an out-of-batch ID drops it silently.
	sel, err := r.batches.ListItems(ctx, b.ID, []int64{items[2].ID, items[1].ID, 9999})
	require.NoError(t, err)
	require.Len(t, sel, 1)
	assert.Equal(t, items[2].ID, sel[0].ID)

	require.NoError(t, r.batches.UpdateStatus(ctx, b.ID, domain.BatchRunning))
	got, err := r.batches.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchRunning, got.Status)
}

func TestTranslationUpsertIsAdditive(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()
	_, items := r.seed(t, 1)
	id := items[0].ID

	require.NoError(t, r.translations.Upsert(ctx, &domain.Translation{ItemID: id, LangCode: "da", Text: "v1"}))
	require.NoError(t, r.translations.Upsert(ctx, &domain.Translation{ItemID: id, LangCode: "sv", Text: "sv1"}))
	require.NoError(t, r.translations.Upsert(ctx, &domain.Translation{ItemID: id, LangCode: "da", Text: "v2"}))

	trs, err := r.translations.ListByItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, trs, 2)

	got, err := r.translations.Get(ctx, id, "da")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.Text)

	translated, err := r.translations.TranslatedItemIDs(ctx, []int64{id, 9999})
	require.NoError(t, err)
	assert.True(t, translated[id])
	assert.False(t, translated[9999])
}

func TestUploadDeleteCascades(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()
	u, items := r.seed(t, 2)

	b := &domain.Batch{UploadID: u.ID, Name: "batch", JobType: u.JobType}
	require.NoError(t, r.batches.Create(ctx, b, []int64{items[0].ID, items[1].ID}))
	require.NoError(t, r.translations.Upsert(ctx, &domain.Translation{ItemID: items[0].ID, LangCode: "da", Text: "x"}))

	require.NoError(t, r.uploads.Delete(ctx, u.ID))

	gotItem, err := r.items.Get(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Nil(t, gotItem)

	gotBatch, err := r.batches.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, gotBatch)

	gotTr, err := r.translations.Get(ctx, items[0].ID, "da")
	require.NoError(t, err)
	assert.Nil(t, gotTr)
}

func TestGlossaryAndSettings(t *testing.T) {
	r := newDB(t)
	ctx := context.Background()

	term := &domain.GlossaryTerm{LangCode: "da", SourceTerm: "bike", TargetTerm: "cykel"}
	require.NoError(t, r.glossary.Upsert(ctx, term))
	require.NoError(t, r.glossary.Upsert(ctx, &domain.GlossaryTerm{LangCode: "da", SourceTerm: "bike", TargetTerm: "cykel v2"}))

	terms, err := r.glossary.TermsFor(ctx, "da")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bike": "cykel v2"}, terms)

	val, err := r.settings.Get(ctx, "gateway.api_key")
	require.NoError(t, err)
	assert.Empty(t, val)
	require.NoError(t, r.settings.Set(ctx, "gateway.api_key", "sk-test"))
	val, err = r.settings.Get(ctx, "gateway.api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", val)
}
