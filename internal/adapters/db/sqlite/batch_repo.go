package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type BatchRepo struct{ *Repo }

func NewBatchRepo(db *sql.DB) *BatchRepo { return &BatchRepo{NewRepo(db)} }

func (r *BatchRepo) Create(ctx context.Context, b *domain.Batch, itemIDs []int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		q := r.SQ.Insert("batches").Columns("upload_id", "name", "job_type", "status", "created_at").
			Values(b.UploadID, b.Name, string(b.JobType), string(domain.BatchPending), now)
		sqlStr, args, _ := q.ToSql()
		res, err := tx.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		b.ID = id
		b.Status = domain.BatchPending
		for i, itemID := range itemIDs {
			mq := r.SQ.Insert("batch_items").Columns("batch_id", "item_id", "position").Values(id, itemID, i)
			mSQL, mArgs, _ := mq.ToSql()
			if _, err := tx.ExecContext(ctx, mSQL, mArgs...); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BatchRepo) Get(ctx context.Context, id int64) (*domain.Batch, error) {
	q := r.SQ.Select("id", "upload_id", "name", "job_type", "status", "created_at").
		From("batches").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var b domain.Batch
	var jobType, status, created string
	if err := row.Scan(&b.ID, &b.UploadID, &b.Name, &jobType, &status, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	b.JobType = domain.JobType(jobType)
	b.Status = domain.BatchStatus(status)
	b.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &b, nil
}

func (r *BatchRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*domain.Batch, error) {
	q := r.SQ.Select("id", "upload_id", "name", "job_type", "status", "created_at").
		From("batches").Where(sq.Eq{"upload_id": uploadID}).OrderBy("id DESC")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Batch
	for rows.Next() {
		var b domain.Batch
		var jobType, status, created string
		if err := rows.Scan(&b.ID, &b.UploadID, &b.Name, &jobType, &status, &created); err != nil {
			return nil, err
		}
		b.JobType = domain.JobType(jobType)
		b.Status = domain.BatchStatus(status)
		b.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *BatchRepo) UpdateStatus(ctx context.Context, id int64, status domain.BatchStatus) error {
	q := r.SQ.Update("batches").Set("status", string(status)).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListItems returns the batch's member items in creation order. A non-empty
// itemIDs narrows the result; IDs outside the batch simply do not appear.
func (r *BatchRepo) ListItems(ctx context.Context, batchID int64, itemIDs []int64) ([]*domain.Item, error) {
	cols := make([]string, 0, len(itemColumns))
	for _, c := range itemColumns {
		cols = append(cols, "i."+c)
	}
	q := r.SQ.Select(cols...).From("items i").
		Join("batch_items bi ON bi.item_id = i.id").
		Where(sq.Eq{"bi.batch_id": batchID}).
		OrderBy("i.id")
	if len(itemIDs) > 0 {
		q = q.Where(sq.Eq{"i.id": itemIDs})
	}
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
