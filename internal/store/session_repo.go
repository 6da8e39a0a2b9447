package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
)

var sessionColumns = []string{
	"id", "candidate_id", "role_level", "status", "question_index",
	"overall_score", "started_at", "ended_at", "updated_at", "data",
}

var summaryColumns = []string{
	"id", "candidate_id", "role_level", "status", "question_index",
	"overall_score", "started_at", "updated_at",
}

var evaluationColumns = []string{
	"sequence", "session_id", "question_id", "category", "score",
	"confidence", "tier", "created_at", "data",
}

// SessionRepo persists interview sessions and their evaluation log.
type SessionRepo struct {
	s   *Store
	now func() time.Time
}

var _ interview.SessionStore = (*SessionRepo)(nil)

// SessionRepo returns the session repository.
func (s *Store) SessionRepo() *SessionRepo {
	return &SessionRepo{s: s, now: time.Now}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveSession upserts the session row.
func (r *SessionRepo) SaveSession(ctx context.Context, sess *interview.Session) error {
	if err := r.upsert(ctx, r.s.db, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// RecordEvaluation appends the evaluation and upserts the session in one
// transaction.
func (r *SessionRepo) RecordEvaluation(ctx context.Context, sess *interview.Session, res evaluation.Result) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := r.s.builder().Insert("evaluations").
		Columns(evaluationColumns...).
		Values(
			seqNum, sess.ID, res.QuestionID, string(res.Category), res.Score,
			res.Confidence, string(res.Tier), formatTime(res.EvaluatedAt), string(data),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	if err := r.upsert(ctx, tx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit evaluation: %w", err)
	}
	return nil
}

func (r *SessionRepo) upsert(ctx context.Context, ex execer, sess *interview.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var endedAt any
	if sess.EndedAt != nil {
		endedAt = formatTime(*sess.EndedAt)
	}

	query, args := r.s.builder().Insert("sessions").
		Columns(sessionColumns...).
		Values(
			sess.ID, sess.CandidateID, string(sess.RoleLevel), string(sess.Status), sess.QuestionIndex,
			sess.Scores.Overall, formatTime(sess.StartedAt), endedAt, formatTime(r.now()), string(data),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	_, err = ex.ExecContext(ctx, query, args...)
	return err
}

// LoadSession returns the persisted session or a SessionNotFoundError.
func (r *SessionRepo) LoadSession(ctx context.Context, id string) (*interview.Session, error) {
	b := r.s.builder()
	query, args := b.Select("data").
		From(b.Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &interview.SessionNotFoundError{SessionID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess interview.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// ActiveSessionForCandidate returns the newest open session ID, or "".
func (r *SessionRepo) ActiveSessionForCandidate(ctx context.Context, candidateID string) (string, error) {
	b := r.s.builder()
	query, args := b.Select("id").
		From(b.Table("sessions")).
		Where(entsql.And(
			entsql.EQ("candidate_id", candidateID),
			entsql.In("status", string(interview.StatusActive), string(interview.StatusPaused)),
		)).
		OrderBy(entsql.Desc("started_at")).
		Limit(1).
		Query()

	var id string
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("active session for %s: %w", candidateID, err)
	}
	return id, nil
}

// ListSessions returns session summaries, newest first.
func (r *SessionRepo) ListSessions(ctx context.Context, f SessionFilter) ([]SessionSummary, error) {
	var preds []*entsql.Predicate
	if f.CandidateID != "" {
		preds = append(preds, entsql.EQ("candidate_id", f.CandidateID))
	}
	if f.Status != "" {
		preds = append(preds, entsql.EQ("status", f.Status))
	}

	b := r.s.builder()
	sel := b.Select(summaryColumns...).From(b.Table("sessions"))
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("started_at"))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var ss SessionSummary
		var started, updated string
		if err := rows.Scan(&ss.ID, &ss.CandidateID, &ss.RoleLevel, &ss.Status,
			&ss.QuestionIndex, &ss.OverallScore, &started, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ss.StartedAt = parseTime(started)
		ss.UpdatedAt = parseTime(updated)
		out = append(out, ss)
	}
	return out, rows.Err()
}

// ListEvaluations returns the session's evaluation log in sequence order.
func (r *SessionRepo) ListEvaluations(ctx context.Context, sessionID string) ([]evaluation.Result, error) {
	b := r.s.builder()
	query, args := b.Select("data").
		From(b.Table("evaluations")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []evaluation.Result
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		var res evaluation.Result
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, fmt.Errorf("decode evaluation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
