package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

type GlossaryRepo struct{ *Repo }

func NewGlossaryRepo(db *sql.DB) *GlossaryRepo { return &GlossaryRepo{NewRepo(db)} }

func (r *GlossaryRepo) Upsert(ctx context.Context, t *domain.GlossaryTerm) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("glossary").Columns("lang_code", "source_term", "target_term", "created_at").
		Values(t.LangCode, t.SourceTerm, t.TargetTerm, now).
		Suffix("ON CONFLICT(lang_code, source_term) DO UPDATE SET target_term=excluded.target_term")
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		t.ID = id
	}
	return nil
}

func (r *GlossaryRepo) List(ctx context.Context, langCode string) ([]*domain.GlossaryTerm, error) {
	q := r.SQ.Select("id", "lang_code", "source_term", "target_term", "created_at").
		From("glossary").OrderBy("lang_code", "source_term")
	if langCode != "" {
		q = q.Where(sq.Eq{"lang_code": langCode})
	}
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.GlossaryTerm
	for rows.Next() {
		var t domain.GlossaryTerm
		var created string
		if err := rows.Scan(&t.ID, &t.LangCode, &t.SourceTerm, &t.TargetTerm, &created); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *GlossaryRepo) TermsFor(ctx context.Context, langCode string) (map[string]string, error) {
	q := r.SQ.Select("source_term", "target_term").From("glossary").Where(sq.Eq{"lang_code": langCode})
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		out[src] = tgt
	}
	return out, rows.Err()
}

func (r *GlossaryRepo) Delete(ctx context.Context, id int64) error {
	q := r.SQ.Delete("glossary").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// SettingsRepo stores key/value settings, e.g. the backend credential.
type SettingsRepo struct{ *Repo }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{NewRepo(db)} }

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO settings(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}
