// Package memory provides in-memory implementations of the repository ports.
// It backs ephemeral runs (no db_path configured) and the usecase tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

// Store holds all records behind one lock. The repository views returned by
// the accessor methods share it.
type Store struct {
	mu           sync.RWMutex
	uploads      map[int64]domain.Upload
	items        map[int64]domain.Item
	translations map[int64]map[string]domain.Translation
	batches      map[int64]domain.Batch
	batchItems   map[int64][]int64
	glossary     map[int64]domain.GlossaryTerm
	settings     map[string]string
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		uploads:      map[int64]domain.Upload{},
		items:        map[int64]domain.Item{},
		translations: map[int64]map[string]domain.Translation{},
		batches:      map[int64]domain.Batch{},
		batchItems:   map[int64][]int64{},
		glossary:     map[int64]domain.GlossaryTerm{},
		settings:     map[string]string{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Uploads() *UploadRepo           { return &UploadRepo{s} }
func (s *Store) Items() *ItemRepo               { return &ItemRepo{s} }
func (s *Store) Translations() *TranslationRepo { return &TranslationRepo{s} }
func (s *Store) Batches() *BatchRepo            { return &BatchRepo{s} }
func (s *Store) Glossary() *GlossaryRepo        { return &GlossaryRepo{s} }
func (s *Store) Settings() *SettingsRepo        { return &SettingsRepo{s} }

type UploadRepo struct{ s *Store }

func (r *UploadRepo) Create(ctx context.Context, u *domain.Upload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.id()
	u.CreatedAt = time.Now().UTC()
	r.s.uploads[u.ID] = *u
	return nil
}

func (r *UploadRepo) Get(ctx context.Context, id int64) (*domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.uploads[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UploadRepo) List(ctx context.Context) ([]*domain.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Upload, 0, len(r.s.uploads))
	for _, u := range r.s.uploads {
		c := u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *UploadRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.uploads, id)
	for itemID, it := range r.s.items {
		if it.UploadID == id {
			delete(r.s.items, itemID)
			delete(r.s.translations, itemID)
		}
	}
	for batchID, b := range r.s.batches {
		if b.UploadID == id {
			delete(r.s.batches, batchID)
			delete(r.s.batchItems, batchID)
		}
	}
	return nil
}

type ItemRepo struct{ s *Store }

func (r *ItemRepo) InsertBatch(ctx context.Context, items []*domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	for _, it := range items {
		it.ID = r.s.id()
		if it.Status == "" {
			it.Status = domain.StatusPending
		}
		it.CreatedAt, it.UpdatedAt = now, now
		r.s.items[it.ID] = *it
	}
	return nil
}

func (r *ItemRepo) Get(ctx context.Context, id int64) (*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Item
	for _, it := range r.s.items {
		if it.UploadID == uploadID {
			c := it
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ItemRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status, errMsg string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil
	}
	it.Status = status
	it.ErrorMessage = errMsg
	it.UpdatedAt = time.Now().UTC()
	r.s.items[id] = it
	return nil
}

func (r *ItemRepo) SetOptimized(ctx context.Context, id int64, text string, status domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil
	}
	it.OptimizedText = text
	it.Status = status
	it.ErrorMessage = ""
	it.UpdatedAt = time.Now().UTC()
	r.s.items[id] = it
	return nil
}

type TranslationRepo struct{ s *Store }

func (r *TranslationRepo) Upsert(ctx context.Context, t *domain.Translation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byLang, ok := r.s.translations[t.ItemID]
	if !ok {
		byLang = map[string]domain.Translation{}
		r.s.translations[t.ItemID] = byLang
	}
	now := time.Now().UTC()
	if prev, ok := byLang[t.LangCode]; ok {
		t.ID = prev.ID
		t.CreatedAt = prev.CreatedAt
	} else {
		t.ID = r.s.id()
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	byLang[t.LangCode] = *t
	return nil
}

func (r *TranslationRepo) Get(ctx context.Context, itemID int64, langCode string) (*domain.Translation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.translations[itemID][langCode]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TranslationRepo) ListByItem(ctx context.Context, itemID int64) ([]*domain.Translation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Translation
	for _, t := range r.s.translations[itemID] {
		c := t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LangCode < out[j].LangCode })
	return out, nil
}

func (r *TranslationRepo) TranslatedItemIDs(ctx context.Context, itemIDs []int64) (map[int64]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		for _, t := range r.s.translations[id] {
			if t.Text != "" {
				out[id] = true
				break
			}
		}
	}
	return out, nil
}

type BatchRepo struct{ s *Store }

func (r *BatchRepo) Create(ctx context.Context, b *domain.Batch, itemIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id()
	b.Status = domain.BatchPending
	b.CreatedAt = time.Now().UTC()
	r.s.batches[b.ID] = *b
	ids := make([]int64, len(itemIDs))
	copy(ids, itemIDs)
	r.s.batchItems[b.ID] = ids
	return nil
}

func (r *BatchRepo) Get(ctx context.Context, id int64) (*domain.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BatchRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Batch
	for _, b := range r.s.batches {
		if b.UploadID == uploadID {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *BatchRepo) UpdateStatus(ctx context.Context, id int64, status domain.BatchStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil
	}
	b.Status = status
	r.s.batches[id] = b
	return nil
}

func (r *BatchRepo) ListItems(ctx context.Context, batchID int64, itemIDs []int64) ([]*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := map[int64]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	var out []*domain.Item
	for _, id := range r.s.batchItems[batchID] {
		if len(want) > 0 && !want[id] {
			continue
		}
		if it, ok := r.s.items[id]; ok {
			c := it
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type GlossaryRepo struct{ s *Store }

func (r *GlossaryRepo) Upsert(ctx context.Context, t *domain.GlossaryTerm) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, g := range r.s.glossary {
		if g.LangCode == t.LangCode && g.SourceTerm == t.SourceTerm {
			g.TargetTerm = t.TargetTerm
			r.s.glossary[id] = g
			t.ID = id
			return nil
		}
	}
	t.ID = r.s.id()
	t.CreatedAt = time.Now().UTC()
	r.s.glossary[t.ID] = *t
	return nil
}

func (r *GlossaryRepo) List(ctx context.Context, langCode string) ([]*domain.GlossaryTerm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.GlossaryTerm
	for _, g := range r.s.glossary {
		if langCode != "" && g.LangCode != langCode {
			continue
		}
		c := g
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LangCode != out[j].LangCode {
			return out[i].LangCode < out[j].LangCode
		}
		return out[i].SourceTerm < out[j].SourceTerm
	})
	return out, nil
}

func (r *GlossaryRepo) TermsFor(ctx context.Context, langCode string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]string{}
	for _, g := range r.s.glossary {
		if g.LangCode == langCode {
			out[g.SourceTerm] = g.TargetTerm
		}
	}
	return out, nil
}

func (r *GlossaryRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.glossary, id)
	return nil
}

type SettingsRepo struct{ s *Store }

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.settings[key], nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[key] = value
	return nil
}
