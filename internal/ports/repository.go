package ports

import (
	"context"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type UploadRepository interface {
	Create(ctx context.Context, u *domain.Upload) error
	Get(ctx context.Context, id int64) (*domain.Upload, error)
	List(ctx context.Context) ([]*domain.Upload, error)
	// Delete removes the upload and cascades to its items, translations and
	// batches.
	Delete(ctx context.Context, id int64) error
}

type ItemRepository interface {
	InsertBatch(ctx context.Context, items []*domain.Item) error
	Get(ctx context.Context, id int64) (*domain.Item, error)
	ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Item, error)
	// UpdateStatus advances only the status (and error message). Used for the
	// in-flight write that must land before a gateway call starts.
	UpdateStatus(ctx context.Context, id int64, status domain.Status, errMsg string) error
	// SetOptimized persists the rewrite result together with the new status in
	// one update, so no reader observes result-without-status.
	SetOptimized(ctx context.Context, id int64, text string, status domain.Status) error
}

type BatchRepository interface {
	// Create stores the batch and its fixed membership in one transaction.
	Create(ctx context.Context, b *domain.Batch, itemIDs []int64) error
	Get(ctx context.Context, id int64) (*domain.Batch, error)
	ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Batch, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BatchStatus) error
	// ListItems returns the batch's items ordered by creation ascending.
	// A non-empty itemIDs narrows the result to that selection; unknown IDs
	// are silently absent from the result.
	ListItems(ctx context.Context, batchID int64, itemIDs []int64) ([]*domain.Item, error)
}

type TranslationRepository interface {
	Upsert(ctx context.Context, t *domain.Translation) error
	Get(ctx context.Context, itemID int64, langCode string) (*domain.Translation, error)
	ListByItem(ctx context.Context, itemID int64) ([]*domain.Translation, error)
	// TranslatedItemIDs reports which of the given items have at least one
	// non-empty translation.
	TranslatedItemIDs(ctx context.Context, itemIDs []int64) (map[int64]bool, error)
}

type GlossaryRepository interface {
	Upsert(ctx context.Context, t *domain.GlossaryTerm) error
	List(ctx context.Context, langCode string) ([]*domain.GlossaryTerm, error)
	// TermsFor returns source→target term mappings for one target language.
	TermsFor(ctx context.Context, langCode string) (map[string]string, error)
	Delete(ctx context.Context, id int64) error
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
