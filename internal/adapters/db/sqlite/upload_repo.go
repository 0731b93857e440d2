package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type UploadRepo struct{ *Repo }

func NewUploadRepo(db *sql.DB) *UploadRepo { return &UploadRepo{NewRepo(db)} }

func (r *UploadRepo) Create(ctx context.Context, u *domain.Upload) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("uploads").Columns("filename", "job_type", "total_count", "created_at").
		Values(u.Filename, string(u.JobType), u.TotalCount, now)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.ID = id
	return nil
}

func (r *UploadRepo) Get(ctx context.Context, id int64) (*domain.Upload, error) {
	q := r.SQ.Select("id", "filename", "job_type", "total_count", "created_at").
		From("uploads").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var u domain.Upload
	var jobType, created string
	if err := row.Scan(&u.ID, &u.Filename, &jobType, &u.TotalCount, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.JobType = domain.JobType(jobType)
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

func (r *UploadRepo) List(ctx context.Context) ([]*domain.Upload, error) {
	q := r.SQ.Select("id", "filename", "job_type", "total_count", "created_at").
		From("uploads").OrderBy("id DESC")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Upload
	for rows.Next() {
		var u domain.Upload
		var jobType, created string
		if err := rows.Scan(&u.ID, &u.Filename, &jobType, &u.TotalCount, &created); err != nil {
			return nil, err
		}
		u.JobType = domain.JobType(jobType)
		u.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *UploadRepo) Delete(ctx context.Context, id int64) error {
	// Items, translations and batches go with it via FK cascade.
	q := r.SQ.Delete("uploads").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
