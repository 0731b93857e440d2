package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type TranslationRepo struct{ *Repo }

func NewTranslationRepo(db *sql.DB) *TranslationRepo { return &TranslationRepo{NewRepo(db)} }

func (r *TranslationRepo) Upsert(ctx context.Context, t *domain.Translation) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("translations").Columns("item_id", "lang_code", "text", "created_at", "updated_at").
		Values(t.ItemID, t.LangCode, t.Text, now, now).
		Suffix("ON CONFLICT(item_id, lang_code) DO UPDATE SET text=excluded.text, updated_at=excluded.updated_at")
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TranslationRepo) Get(ctx context.Context, itemID int64, langCode string) (*domain.Translation, error) {
	q := r.SQ.Select("id", "item_id", "lang_code", "text", "created_at", "updated_at").
		From("translations").Where(sq.Eq{"item_id": itemID, "lang_code": langCode}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var t domain.Translation
	var created, updated string
	if err := row.Scan(&t.ID, &t.ItemID, &t.LangCode, &t.Text, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &t, nil
}

func (r *TranslationRepo) ListByItem(ctx context.Context, itemID int64) ([]*domain.Translation, error) {
	q := r.SQ.Select("id", "item_id", "lang_code", "text", "created_at", "updated_at").
		From("translations").Where(sq.Eq{"item_id": itemID}).OrderBy("lang_code")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Translation
	for rows.Next() {
		var t domain.Translation
		var created, updated string
		if err := rows.Scan(&t.ID, &t.ItemID, &t.LangCode, &t.Text, &created, &updated); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		t.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *TranslationRepo) TranslatedItemIDs(ctx context.Context, itemIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	q := r.SQ.Select("DISTINCT item_id").From("translations").
		Where(sq.Eq{"item_id": itemIDs}).Where(sq.NotEq{"text": ""})
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
