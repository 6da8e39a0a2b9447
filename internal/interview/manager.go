// Package interview owns the session lifecycle and drives selection,
// evaluation and scoring for each turn.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/llm"
	"github.com/abhisek/skillprobe/internal/logger"
	"github.com/abhisek/skillprobe/internal/metrics"
	"github.com/abhisek/skillprobe/internal/scoring"
	"github.com/abhisek/skillprobe/internal/selector"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// DefaultMaxQuestions is the question budget when none is configured.
const DefaultMaxQuestions = 10

// Config holds the manager's policy knobs.
type Config struct {
	// MaxQuestions is the question budget given to new sessions.
	MaxQuestions int
}

// Deps are the manager's collaborators. Selector and Evaluator are required.
type Deps struct {
	Selector  *selector.Selector
	Evaluator *evaluation.Evaluator
	Registry  CandidateRegistry
	Store     SessionStore
	Logger    *zap.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Manager runs interview sessions. Sessions are independent; each one is
// guarded by its own mutex so different candidates proceed in parallel.
type Manager struct {
	cfg       Config
	selector  *selector.Selector
	evaluator *evaluation.Evaluator
	registry  CandidateRegistry
	store     SessionStore
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	busy    atomic.Bool
	session *Session
}

// NewManager creates a Manager.
func NewManager(cfg Config, deps Deps) *Manager {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	m := &Manager{
		cfg:       cfg,
		selector:  deps.Selector,
		evaluator: deps.Evaluator,
		registry:  deps.Registry,
		store:     deps.Store,
		logger:    logger.OrNop(deps.Logger),
		now:       deps.Now,
		newID:     deps.NewID,
		sessions:  make(map[string]*entry),
	}
	if m.registry == nil {
		m.registry = NewMemoryRegistry()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

// MaxQuestions returns the budget stamped on newly started sessions.
func (m *Manager) MaxQuestions() int {
	return m.cfg.MaxQuestions
}

// Start opens a new active session for the candidate.
func (m *Manager) Start(ctx context.Context, candidateID string, role taxonomy.RoleLevel) (*Session, error) {
	if candidateID == "" {
		return nil, errors.New("candidate ID is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role level %q", role)
	}

	if m.store != nil {
		existing, err := m.store.ActiveSessionForCandidate(ctx, candidateID)
		if err != nil {
			return nil, fmt.Errorf("check open sessions: %w", err)
		}
		if existing != "" {
			return nil, &ActiveSessionError{CandidateID: candidateID, SessionID: existing}
		}
	}

	id := m.newID()
	holder, ok, err := m.registry.Acquire(ctx, candidateID, id)
	if err != nil {
		return nil, fmt.Errorf("claim candidate %s: %w", candidateID, err)
	}
	if !ok {
		return nil, &ActiveSessionError{CandidateID: candidateID, SessionID: holder}
	}

	s := &Session{
		ID:           id,
		CandidateID:  candidateID,
		RoleLevel:    role,
		Status:       StatusActive,
		MaxQuestions: m.cfg.MaxQuestions,
		Scores:       scoring.Zero(),
		StartedAt:    m.now(),
		Metadata:     map[string]any{},
	}

	if m.store != nil {
		if err := m.store.SaveSession(ctx, s); err != nil {
			_ = m.registry.Release(ctx, candidateID, id)
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	m.mu.Lock()
	m.sessions[id] = &entry{session: s}
	m.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(string(TransitionStart)).Inc()
	metrics.SessionsActive.Inc()
	m.sessionLogger(s).Info("session started",
		zap.String("transition", string(TransitionStart)),
		zap.String("role_level", string(role)),
	)
	return s.Clone(), nil
}

// Get returns a snapshot of the session, rehydrating it from the store if
// it is not resident.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Load rehydrates a persisted session so it can be resumed after a restart.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	return m.Get(ctx, id)
}

// DeliverNextQuestion selects and records the next question. If a delivered
// question is still unanswered it is returned again without a new turn.
// A selector.ExhaustionError means the interview is naturally complete.
func (m *Manager) DeliverNextQuestion(ctx context.Context, id string) (*catalog.Question, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Status != StatusActive {
		return nil, m.invalid(s, TransitionDeliver)
	}
	if pending := s.PendingQuestion(); pending != nil {
		q := pending.Clone()
		return &q, nil
	}

	weights, err := taxonomy.RoleWeights(s.RoleLevel)
	if err != nil {
		return nil, err
	}
	sel, err := m.selector.Next(ctx, selector.Input{
		Weights: weights,
		Budget:  s.MaxQuestions,
		Asked:   s.Asked(),
		Scored:  s.scoredHistory(),
	})
	if err != nil {
		if errors.Is(err, selector.ErrExhausted) {
			metrics.CatalogExhausted.Inc()
			m.sessionLogger(s).Info("catalog exhausted", zap.Int("question_index", s.QuestionIndex))
		}
		return nil, err
	}

	q := sel.Question.Clone()
	next := s.Clone()
	next.Turns = append(next.Turns, Turn{
		Kind:       TurnQuestion,
		Text:       q.Prompt,
		Timestamp:  m.now(),
		QuestionID: q.ID,
		Question:   &q,
		Metadata: map[string]any{
			"category":   string(sel.Category),
			"difficulty": string(sel.Difficulty),
			"fallback":   sel.Fallback,
			"coverage":   sel.Coverage.Overall,
		},
	})

	if m.store != nil {
		if err := m.store.SaveSession(ctx, next); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	e.session = next

	fallback := sel.Fallback
	if fallback == "" {
		fallback = "none"
	}
	metrics.QuestionsDelivered.WithLabelValues(string(q.Category), fallback).Inc()
	metrics.SessionTransitions.WithLabelValues(string(TransitionDeliver)).Inc()
	m.sessionLogger(next).Info("question delivered",
		zap.String("transition", string(TransitionDeliver)),
		zap.String("question_id", q.ID),
		zap.String("category", string(q.Category)),
		zap.String("difficulty", string(q.Difficulty)),
	)

	out := q.Clone()
	return &out, nil
}

// SubmitResponse scores the answer to the pending question. A second call
// while one is still evaluating fails with ConcurrentModificationError.
// On any evaluation failure the session is left unchanged so the same
// answer can be resubmitted.
func (m *Manager) SubmitResponse(ctx context.Context, id, text string) (*evaluation.Result, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.busy.CompareAndSwap(false, true) {
		metrics.ConcurrentRejections.Inc()
		return nil, &ConcurrentModificationError{SessionID: id}
	}
	defer e.busy.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Status != StatusActive {
		return nil, m.invalid(s, TransitionSubmit)
	}
	pending := s.PendingQuestion()
	if pending == nil {
		return nil, &NoPendingQuestionError{SessionID: id}
	}

	log := m.sessionLogger(s)
	res, err := m.evaluator.Evaluate(llm.WithSession(ctx, s.ID), *pending, text, evaluation.Context{
		RoleLevel: s.RoleLevel,
		Scores:    s.Scores.Categories,
	})
	if err != nil {
		log.Warn("evaluation failed",
			zap.String("question_id", pending.ID),
			zap.Bool("retryable", IsRetryable(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("evaluate response to %s: %w", pending.ID, err)
	}

	weights, err := taxonomy.RoleWeights(s.RoleLevel)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	next.Turns = append(next.Turns, Turn{
		Kind:       TurnResponse,
		Text:       text,
		Timestamp:  m.now(),
		QuestionID: pending.ID,
		Metadata: map[string]any{
			"score": res.Score,
			"tier":  string(res.Tier),
		},
	})
	next.Evaluations = append(next.Evaluations, *res)
	next.Scores = scoring.Recompute(next.ScoringHistory(), weights)
	next.QuestionIndex++

	if m.store != nil {
		if err := m.store.RecordEvaluation(ctx, next, *res); err != nil {
			return nil, fmt.Errorf("record evaluation: %w", err)
		}
	}
	e.session = next

	metrics.SessionTransitions.WithLabelValues(string(TransitionSubmit)).Inc()
	log.Info("response recorded",
		zap.String("transition", string(TransitionSubmit)),
		zap.String("question_id", pending.ID),
		zap.String("answer", logger.TruncateForLog(text, 80)),
		zap.Float64("score", res.Score),
		zap.String("tier", string(res.Tier)),
		zap.Int("question_index", next.QuestionIndex),
		zap.Float64("overall", next.Scores.Overall),
	)

	out := *res
	out.PartialCredits = append([]evaluation.PartialCredit(nil), res.PartialCredits...)
	return &out, nil
}

// Pause moves an active session to paused.
func (m *Manager) Pause(ctx context.Context, id string) (*Session, error) {
	return m.transition(ctx, id, TransitionPause, func(s *Session) error {
		if s.Status != StatusActive {
			return m.invalid(s, TransitionPause)
		}
		s.Status = StatusPaused
		s.Metadata = setMeta(s.Metadata, "paused_at", m.now())
		return nil
	})
}

// Resume moves a paused session back to active.
func (m *Manager) Resume(ctx context.Context, id string) (*Session, error) {
	return m.transition(ctx, id, TransitionResume, func(s *Session) error {
		if s.Status != StatusPaused {
			return m.invalid(s, TransitionResume)
		}
		s.Status = StatusActive
		s.Metadata = setMeta(s.Metadata, "resumed_at", m.now())
		return nil
	})
}

// Complete ends an active or paused session and frees the candidate.
// Scores are frozen from this point on. With a store configured the session
// is no longer kept resident; later reads load it from the store.
func (m *Manager) Complete(ctx context.Context, id string) (*Session, error) {
	s, err := m.transition(ctx, id, TransitionComplete, func(s *Session) error {
		if !s.Status.Open() {
			return m.invalid(s, TransitionComplete)
		}
		ended := m.now()
		s.Status = StatusCompleted
		s.EndedAt = &ended
		s.Turns = append(s.Turns, m.systemTurn("Interview completed."))
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionsActive.Dec()
	if m.store != nil {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}
	if err := m.registry.Release(ctx, s.CandidateID, s.ID); err != nil {
		m.sessionLogger(s).Warn("release candidate claim failed", zap.Error(err))
	}
	return s, nil
}

func (m *Manager) transition(ctx context.Context, id string, t Transition, apply func(*Session) error) (*Session, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.session.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}
	if m.store != nil {
		if err := m.store.SaveSession(ctx, next); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	e.session = next

	metrics.SessionTransitions.WithLabelValues(string(t)).Inc()
	m.sessionLogger(next).Info("session transition",
		zap.String("transition", string(t)),
		zap.String("status", string(next.Status)),
		zap.Int("question_index", next.QuestionIndex),
	)
	return next.Clone(), nil
}

// lookup returns the resident entry, loading it from the store if needed.
func (m *Manager) lookup(ctx context.Context, id string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return e, nil
	}
	if m.store == nil {
		return nil, &SessionNotFoundError{SessionID: id}
	}

	s, err := m.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.MaxQuestions <= 0 {
		s.MaxQuestions = m.cfg.MaxQuestions
	}
	// Completed sessions are read-only and are not kept resident.
	if !s.Status.Open() {
		return &entry{session: s}, nil
	}
	holder, ok, err := m.registry.Acquire(ctx, s.CandidateID, s.ID)
	if err != nil {
		return nil, fmt.Errorf("claim candidate %s: %w", s.CandidateID, err)
	}
	if !ok {
		return nil, &ActiveSessionError{CandidateID: s.CandidateID, SessionID: holder}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, nil
	}
	e = &entry{session: s}
	m.sessions[id] = e
	metrics.SessionsActive.Inc()
	m.sessionLogger(s).Info("session rehydrated", zap.String("status", string(s.Status)))
	return e, nil
}

func (m *Manager) invalid(s *Session, t Transition) error {
	return &InvalidTransitionError{SessionID: s.ID, Transition: t, State: s.Status}
}

func (m *Manager) systemTurn(text string) Turn {
	return Turn{Kind: TurnSystem, Text: text, Timestamp: m.now()}
}

// setMeta records lifecycle timestamps outside the turn history, which
// pause and resume must leave untouched.
func setMeta(meta map[string]any, key string, t time.Time) map[string]any {
	if meta == nil {
		meta = map[string]any{}
	}
	meta[key] = t.UTC().Format(time.RFC3339Nano)
	return meta
}

func (m *Manager) sessionLogger(s *Session) *zap.Logger {
	return logger.WithFields(m.logger, logger.SessionFields(s.ID, s.CandidateID)...)
}
