package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// QuestionRepo is a catalog.Catalog backed by the questions table.
type QuestionRepo struct {
	s *Store
}

var _ catalog.Catalog = (*QuestionRepo)(nil)

// QuestionRepo returns the question repository.
func (s *Store) QuestionRepo() *QuestionRepo {
	return &QuestionRepo{s: s}
}

// Import validates questions and upserts them by ID in one transaction.
func (r *QuestionRepo) Import(ctx context.Context, questions []catalog.Question) error {
	if err := catalog.Validate(questions); err != nil {
		return err
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question %s: %w", q.ID, err)
		}
		query, args := r.s.builder().Insert("questions").
			Columns("id", "category", "difficulty", "updated_at", "data").
			Values(q.ID, string(q.Category), string(q.Difficulty), now, string(data)).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Count returns the number of stored questions.
func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	b := r.s.builder()
	query, args := b.Select("COUNT(*)").From(b.Table("questions")).Query()

	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *QuestionRepo) FindByCategoryAndDifficulty(ctx context.Context, category taxonomy.Category, difficulty taxonomy.Difficulty, excludeIDs []string) ([]catalog.Question, error) {
	preds := []*entsql.Predicate{
		entsql.EQ("category", string(category)),
		entsql.EQ("difficulty", string(difficulty)),
	}
	if p := notIn(excludeIDs); p != nil {
		preds = append(preds, p)
	}
	return r.find(ctx, entsql.And(preds...))
}

func (r *QuestionRepo) FindAny(ctx context.Context, excludeIDs []string) ([]catalog.Question, error) {
	return r.find(ctx, notIn(excludeIDs))
}

func (r *QuestionRepo) find(ctx context.Context, where *entsql.Predicate) ([]catalog.Question, error) {
	b := r.s.builder()
	sel := b.Select("data").From(b.Table("questions"))
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.OrderBy("id").Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []catalog.Question
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q catalog.Question
		if err := json.Unmarshal([]byte(data), &q); err != nil {
			return nil, fmt.Errorf("decode question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func notIn(ids []string) *entsql.Predicate {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return entsql.NotIn("id", args...)
}
