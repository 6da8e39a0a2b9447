package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/llm"
	"github.com/abhisek/skillprobe/internal/selector"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

func testCatalog() *catalog.Memory {
	return catalog.MustMemory(
		catalog.Question{
			ID: "bf-a", Category: taxonomy.CategoryBasicFormulas, Difficulty: taxonomy.DifficultyBasic,
			Prompt:           "Sum A1:A10",
			ExpectedPatterns: []catalog.ExpectedPattern{{Pattern: "=SUM(A1:A10)", Credit: 100}},
			Rubric:           catalog.Rubric{MaxScore: 100},
		},
		catalog.Question{
			ID: "bf-b", Category: taxonomy.CategoryBasicFormulas, Difficulty: taxonomy.DifficultyBasic,
			Prompt: "Total the sales column",
			Rubric: catalog.Rubric{
				MaxScore:      100,
				PartialCredit: []catalog.PartialCreditRule{{Condition: "mentions SUM function", CreditPercentage: 50}},
			},
		},
		catalog.Question{
			ID: "dm-a", Category: taxonomy.CategoryDataManipulation, Difficulty: taxonomy.DifficultyBasic,
			Prompt: "Remove duplicate rows",
			Rubric: catalog.Rubric{MaxScore: 100},
		},
	)
}

// stubJudge echoes any rule-tier score and otherwise returns 40.
type stubJudge struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (j *stubJudge) Judge(_ context.Context, req evaluation.JudgeRequest) (*evaluation.Judgment, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if j.fail != nil {
		err := j.fail
		j.fail = nil
		return nil, err
	}
	score := 40.0
	if req.RuleScore != nil {
		score = *req.RuleScore
	}
	return &evaluation.Judgment{Score: score, Confidence: 0.75, Rationale: "stub"}, nil
}

func newTestManager(cat catalog.Catalog, judge evaluation.Judge, store SessionStore) *Manager {
	return newBudgetManager(10, cat, judge, store)
}

func newBudgetManager(maxQuestions int, cat catalog.Catalog, judge evaluation.Judge, store SessionStore) *Manager {
	var n atomic.Int64
	return NewManager(Config{MaxQuestions: maxQuestions}, Deps{
		Selector:  selector.New(cat, selector.WithDraw(func(int) int { return 0 })),
		Evaluator: evaluation.New(judge, evaluation.DefaultConfig(), nil),
		Store:     store,
		Now:       func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			return fmt.Sprintf("s-%d", n.Add(1))
		},
	})
}

func TestEndToEnd_ThreeAnswers(t *testing.T) {
	ctx := context.Background()
	judge := &stubJudge{}
	m := newTestManager(testCatalog(), judge, nil)

	s, err := m.Start(ctx, "cand-1", taxonomy.RoleIntermediate)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	steps := []struct {
		wantQuestion string
		answer       string
		wantScore    float64
	}{
		{"bf-a", "=SUM(A1:A10)", 100},
		{"dm-a", "I would ask a colleague", 40},
		{"bf-b", "It mentions SUM function", 50},
	}
	for i, st := range steps {
		q, err := m.DeliverNextQuestion(ctx, s.ID)
		if err != nil {
			t.Fatalf("step %d deliver: %v", i, err)
		}
		if q.ID != st.wantQuestion {
			t.Fatalf("step %d question = %s, want %s", i, q.ID, st.wantQuestion)
		}
		res, err := m.SubmitResponse(ctx, s.ID, st.answer)
		if err != nil {
			t.Fatalf("step %d submit: %v", i, err)
		}
		if res.Score != st.wantScore {
			t.Errorf("step %d score = %v, want %v", i, res.Score, st.wantScore)
		}
	}

	if judge.calls != 2 {
		t.Errorf("judge calls = %d, want 2 (exact match skips the AI)", judge.calls)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.QuestionIndex != 3 {
		t.Errorf("QuestionIndex = %d, want 3", got.QuestionIndex)
	}
	if v := got.Scores.Of(taxonomy.CategoryBasicFormulas); v != 75 {
		t.Errorf("basic_formulas = %v, want 75", v)
	}
	if v := got.Scores.Of(taxonomy.CategoryDataManipulation); v != 40 {
		t.Errorf("data_manipulation = %v, want 40", v)
	}
	if v := got.Scores.Of(taxonomy.CategoryPivotTables); v != 0 {
		t.Errorf("pivot_tables = %v, want 0", v)
	}
	if math.Abs(got.Scores.Overall-57.5) > 1e-9 {
		t.Errorf("Overall = %v, want 57.5", got.Scores.Overall)
	}

	_, err = m.DeliverNextQuestion(ctx, s.ID)
	if !errors.Is(err, selector.ErrExhausted) {
		t.Fatalf("deliver after all questions: err = %v, want ErrExhausted", err)
	}
	var inv *InvalidTransitionError
	if errors.As(err, &inv) {
		t.Error("exhaustion surfaced as InvalidTransitionError")
	}

	done, err := m.Complete(ctx, s.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != StatusCompleted || done.EndedAt == nil {
		t.Errorf("completed session = %+v", done)
	}
	if last := done.Turns[len(done.Turns)-1]; last.Kind != TurnSystem {
		t.Errorf("last turn kind = %s, want system", last.Kind)
	}
}

func TestStart_OneOpenSessionPerCandidate(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(testCatalog(), nil, nil)

	s, err := m.Start(ctx, "cand-1", taxonomy.RoleBasic)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Pause(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	_, err = m.Start(ctx, "cand-1", taxonomy.RoleBasic)
	var active *ActiveSessionError
	if !errors.As(err, &active) || active.SessionID != s.ID {
		t.Fatalf("second Start err = %v, want ActiveSessionError naming %s", err, s.ID)
	}

	if _, err := m.Start(ctx, "cand-2", taxonomy.RoleBasic); err != nil {
		t.Errorf("other candidate blocked: %v", err)
	}

	if _, err := m.Complete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(ctx, "cand-1", taxonomy.RoleBasic); err != nil {
		t.Errorf("Start after Complete: %v", err)
	}
}

func TestStart_InvalidInput(t *testing.T) {
	m := newTestManager(testCatalog(), nil, nil)
	if _, err := m.Start(context.Background(), "", taxonomy.RoleBasic); err == nil {
		t.Error("empty candidate accepted")
	}
	if _, err := m.Start(context.Background(), "c", "expert"); err == nil {
		t.Error("unknown role accepted")
	}
}

func TestPauseResume_Transitions(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(testCatalog(), nil, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleIntermediate)

	if _, err := m.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SubmitResponse(ctx, s.ID, "=sum(a1:a10)"); err != nil {
		t.Fatal(err)
	}
	before, _ := m.Get(ctx, s.ID)

	if _, err := m.Resume(ctx, s.ID); !isInvalid(err, TransitionResume, StatusActive) {
		t.Errorf("Resume on active: err = %v", err)
	}
	if _, err := m.Pause(ctx, s.ID); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if _, err := m.Pause(ctx, s.ID); !isInvalid(err, TransitionPause, StatusPaused) {
		t.Errorf("Pause on paused: err = %v", err)
	}
	if _, err := m.SubmitResponse(ctx, s.ID, "x"); !isInvalid(err, TransitionSubmit, StatusPaused) {
		t.Errorf("Submit on paused: err = %v", err)
	}
	if _, err := m.DeliverNextQuestion(ctx, s.ID); !isInvalid(err, TransitionDeliver, StatusPaused) {
		t.Errorf("Deliver on paused: err = %v", err)
	}

	if _, err := m.Resume(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Pause(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	after, err := m.Resume(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}

	if after.Status != StatusActive {
		t.Errorf("Status = %s, want active", after.Status)
	}
	if after.QuestionIndex != before.QuestionIndex {
		t.Errorf("QuestionIndex = %d, want %d", after.QuestionIndex, before.QuestionIndex)
	}
	if len(after.Turns) != len(before.Turns) {
		t.Errorf("history length = %d, want %d", len(after.Turns), len(before.Turns))
	}
	if _, ok := after.Metadata["resumed_at"]; !ok {
		t.Error("resume not stamped in metadata")
	}
}

func TestComplete_Terminal(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(testCatalog(), nil, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleBasic)
	if _, err := m.Pause(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Complete(ctx, s.ID); err != nil {
		t.Fatalf("Complete from paused: %v", err)
	}

	for name, op := range map[Transition]func() error{
		TransitionComplete: func() error { _, err := m.Complete(ctx, s.ID); return err },
		TransitionResume:   func() error { _, err := m.Resume(ctx, s.ID); return err },
		TransitionPause:    func() error { _, err := m.Pause(ctx, s.ID); return err },
		TransitionDeliver:  func() error { _, err := m.DeliverNextQuestion(ctx, s.ID); return err },
	} {
		if err := op(); !isInvalid(err, name, StatusCompleted) {
			t.Errorf("%s on completed: err = %v", name, err)
		}
	}
}

func TestDeliver_RedeliversPendingQuestion(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(testCatalog(), nil, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleBasic)

	q1, err := m.DeliverNextQuestion(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	q2, err := m.DeliverNextQuestion(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if q1.ID != q2.ID {
		t.Errorf("redelivered %s, want %s", q2.ID, q1.ID)
	}
	got, _ := m.Get(ctx, s.ID)
	if len(got.Turns) != 1 || got.QuestionIndex != 0 {
		t.Errorf("turns = %d index = %d, want 1 and 0", len(got.Turns), got.QuestionIndex)
	}
}

func TestSubmit_NoPendingQuestion(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(testCatalog(), nil, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleBasic)

	_, err := m.SubmitResponse(ctx, s.ID, "hello")
	var np *NoPendingQuestionError
	if !errors.As(err, &np) {
		t.Errorf("err = %v, want NoPendingQuestionError", err)
	}
}

func TestSubmit_FailedEvaluationIsRetryable(t *testing.T) {
	ctx := context.Background()
	judge := &stubJudge{fail: &llm.ErrProviderUnavailable{}}
	m := newTestManager(testCatalog(), judge, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleIntermediate)

	if _, err := m.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	before, _ := m.Get(ctx, s.ID)

	_, err := m.SubmitResponse(ctx, s.ID, "vague answer")
	if err == nil {
		t.Fatal("expected evaluation failure")
	}
	if !IsRetryable(err) {
		t.Errorf("IsRetryable(%v) = false, want true", err)
	}

	mid, _ := m.Get(ctx, s.ID)
	if mid.QuestionIndex != before.QuestionIndex || len(mid.Turns) != len(before.Turns) || len(mid.Evaluations) != 0 {
		t.Fatalf("failed evaluation changed session: index %d turns %d evals %d",
			mid.QuestionIndex, len(mid.Turns), len(mid.Evaluations))
	}

	if _, err := m.SubmitResponse(ctx, s.ID, "vague answer"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	after, _ := m.Get(ctx, s.ID)
	responses := 0
	for _, turn := range after.Turns {
		if turn.Kind == TurnResponse {
			responses++
		}
	}
	if responses != 1 || len(after.Evaluations) != 1 || after.QuestionIndex != 1 {
		t.Errorf("after retry: responses %d evals %d index %d, want 1/1/1",
			responses, len(after.Evaluations), after.QuestionIndex)
	}
}

type blockingJudge struct {
	entered chan struct{}
	release chan struct{}
}

func (j *blockingJudge) Judge(ctx context.Context, _ evaluation.JudgeRequest) (*evaluation.Judgment, error) {
	close(j.entered)
	select {
	case <-j.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &evaluation.Judgment{Score: 10, Confidence: 0.5}, nil
}

func TestSubmit_ConcurrentRejected(t *testing.T) {
	ctx := context.Background()
	judge := &blockingJudge{entered: make(chan struct{}), release: make(chan struct{})}
	m := newTestManager(testCatalog(), judge, nil)
	s, _ := m.Start(ctx, "cand-1", taxonomy.RoleIntermediate)
	if _, err := m.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.SubmitResponse(ctx, s.ID, "first")
		done <- err
	}()
	<-judge.entered

	_, err := m.SubmitResponse(ctx, s.ID, "second")
	var cm *ConcurrentModificationError
	if !errors.As(err, &cm) {
		t.Errorf("concurrent submit err = %v, want ConcurrentModificationError", err)
	}
	if IsRetryable(err) {
		t.Error("ConcurrentModificationError should not be retryable")
	}

	close(judge.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	got, _ := m.Get(ctx, s.ID)
	if len(got.Evaluations) != 1 {
		t.Errorf("evaluations = %d, want 1", len(got.Evaluations))
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(catalog.Builtin(), nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Start(ctx, fmt.Sprintf("cand-%d", i), taxonomy.RoleAdvanced)
			if err != nil {
				errs <- err
				return
			}
			for j := 0; j < 3; j++ {
				if _, err := m.DeliverNextQuestion(ctx, s.ID); err != nil {
					errs <- err
					return
				}
				if _, err := m.SubmitResponse(ctx, s.ID, "use a pivot table"); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestShouldComplete(t *testing.T) {
	tests := []struct {
		name  string
		index int
		max   int
		want  bool
	}{
		{"at budget", 10, 10, true},
		{"past budget", 11, 10, true},
		{"below budget", 9, 10, false},
		{"no budget recorded", 50, 0, false},
	}
	for _, tt := range tests {
		s := &Session{QuestionIndex: tt.index, MaxQuestions: tt.max}
		if got := ShouldComplete(s); got != tt.want {
			t.Errorf("ShouldComplete(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	m := newTestManager(testCatalog(), nil, nil)
	_, err := m.Get(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

// memStore is a SessionStore that round-trips through JSON like a real store.
type memStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	evals    []evaluation.Result
}

func newMemStore() *memStore { return &memStore{sessions: map[string][]byte{}} }

func (s *memStore) SaveSession(_ context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = b
	return nil
}

func (s *memStore) RecordEvaluation(ctx context.Context, sess *Session, r evaluation.Result) error {
	s.mu.Lock()
	s.evals = append(s.evals, r)
	s.mu.Unlock()
	return s.SaveSession(ctx, sess)
}

func (s *memStore) LoadSession(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.sessions[id]
	if !ok {
		return nil, &SessionNotFoundError{SessionID: id}
	}
	var out Session
	return &out, json.Unmarshal(b, &out)
}

func (s *memStore) ActiveSessionForCandidate(_ context.Context, candidateID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range s.sessions {
		var sess Session
		if err := json.Unmarshal(b, &sess); err != nil {
			return "", err
		}
		if sess.CandidateID == candidateID && sess.Status.Open() {
			return id, nil
		}
	}
	return "", nil
}

func TestLoad_RehydratesAcrossManagers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	m1 := newTestManager(testCatalog(), nil, store)
	s, _ := m1.Start(ctx, "cand-1", taxonomy.RoleIntermediate)
	if _, err := m1.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.SubmitResponse(ctx, s.ID, "=SUM(A1:A10)"); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.Pause(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if len(store.evals) != 1 {
		t.Errorf("stored evaluations = %d, want 1", len(store.evals))
	}

	m2 := newTestManager(testCatalog(), nil, store)
	if _, err := m2.Start(ctx, "cand-1", taxonomy.RoleIntermediate); err == nil {
		t.Error("Start allowed while a persisted session is open")
	}

	loaded, err := m2.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Status != StatusPaused || loaded.QuestionIndex != 1 {
		t.Errorf("loaded status %s index %d", loaded.Status, loaded.QuestionIndex)
	}
	if _, err := m2.Resume(ctx, s.ID); err != nil {
		t.Fatalf("Resume after reload: %v", err)
	}
	q, err := m2.DeliverNextQuestion(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if q.ID == "bf-a" {
		t.Error("reloaded session repeated an asked question")
	}
}

func isInvalid(err error, tr Transition, st Status) bool {
	var inv *InvalidTransitionError
	return errors.As(err, &inv) && inv.Transition == tr && inv.State == st
}

func TestLoad_KeepsSessionBudget(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	m1 := newBudgetManager(2, testCatalog(), nil, store)
	s, err := m1.Start(ctx, "cand-1", taxonomy.RoleBasic)
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxQuestions != 2 {
		t.Fatalf("MaxQuestions = %d, want 2", s.MaxQuestions)
	}
	if _, err := m1.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.SubmitResponse(ctx, s.ID, "=SUM(A1:A10)"); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.Pause(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	m2 := newBudgetManager(10, testCatalog(), nil, store)
	if _, err := m2.Resume(ctx, s.ID); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if _, err := m2.DeliverNextQuestion(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m2.SubmitResponse(ctx, s.ID, "no idea"); err != nil {
		t.Fatal(err)
	}

	got, err := m2.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MaxQuestions != 2 {
		t.Errorf("MaxQuestions after reload = %d, want 2", got.MaxQuestions)
	}
	if !ShouldComplete(got) {
		t.Errorf("ShouldComplete at index %d = false, want the original budget of 2 to apply", got.QuestionIndex)
	}
}

func TestComplete_DropsResidentSession(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(testCatalog(), nil, store)

	s, err := m.Start(ctx, "cand-1", taxonomy.RoleBasic)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Complete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}

	m.mu.Lock()
	resident := len(m.sessions)
	m.mu.Unlock()
	if resident != 0 {
		t.Errorf("resident sessions after Complete = %d, want 0", resident)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get after Complete: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if _, err := m.Resume(ctx, s.ID); !isInvalid(err, TransitionResume, StatusCompleted) {
		t.Errorf("Resume on completed: err = %v", err)
	}

	m.mu.Lock()
	resident = len(m.sessions)
	m.mu.Unlock()
	if resident != 0 {
		t.Errorf("resident sessions after reading a completed session = %d, want 0", resident)
	}
}
