package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type ItemRepo struct{ *Repo }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{NewRepo(db)} }

var itemColumns = []string{
	"id", "upload_id", "position", "name", "source_text", "attributes_json",
	"tone_hint", "optimized_text", "status", "error_message", "created_at", "updated_at",
}

func (r *ItemRepo) InsertBatch(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, it := range items {
			if it.Status == "" {
				it.Status = domain.StatusPending
			}
			q := r.SQ.Insert("items").
				Columns("upload_id", "position", "name", "source_text", "attributes_json",
					"tone_hint", "optimized_text", "status", "error_message", "created_at", "updated_at").
				Values(it.UploadID, it.Position, it.Name, it.SourceText, it.AttributesRaw,
					it.ToneHint, it.OptimizedText, string(it.Status), it.ErrorMessage, now, now)
			sqlStr, args, _ := q.ToSql()
			res, err := tx.ExecContext(ctx, sqlStr, args...)
			if err != nil {
				return err
			}
			id, _ := res.LastInsertId()
			it.ID = id
		}
		return nil
	})
}

func (r *ItemRepo) Get(ctx context.Context, id int64) (*domain.Item, error) {
	q := r.SQ.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *ItemRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Item, error) {
	q := r.SQ.Select(itemColumns...).From("items").Where(sq.Eq{"upload_id": uploadID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ItemRepo) UpdateStatus(ctx context.Context, id int64, status domain.Status, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("items").
		Set("status", string(status)).Set("error_message", errMsg).Set("updated_at", now).
		Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// SetOptimized writes the rewrite result and the new status in a single
// UPDATE so a concurrent read never sees one without the other.
func (r *ItemRepo) SetOptimized(ctx context.Context, id int64, text string, status domain.Status) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("items").
		Set("optimized_text", text).Set("status", string(status)).Set("error_message", "").Set("updated_at", now).
		Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var it domain.Item
	var status, created, updated string
	if err := row.Scan(&it.ID, &it.UploadID, &it.Position, &it.Name, &it.SourceText,
		&it.AttributesRaw, &it.ToneHint, &it.OptimizedText, &status, &it.ErrorMessage,
		&created, &updated); err != nil {
		return nil, err
	}
	it.Status = domain.Status(status)
	it.CreatedAt, _ = time.Parse(time.RFC3339, created)
	it.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &it, nil
}
