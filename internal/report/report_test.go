package report

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/scoring"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

func completedSession(level taxonomy.RoleLevel) *interview.Session {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(42 * time.Minute)
	return &interview.Session{
		ID:           "s-1",
		CandidateID:  "cand-1",
		RoleLevel:    level,
		Status:       interview.StatusCompleted,
		MaxQuestions: 10,
		StartedAt:    start,
		EndedAt:      &end,
		Turns: []interview.Turn{
			{Kind: interview.TurnQuestion, QuestionID: "q1", Text: "Sum A1:A10"},
			{Kind: interview.TurnResponse, QuestionID: "q1", Text: "=SUM(A1:A10)"},
		},
	}
}

func result(id string, cat taxonomy.Category, score, conf float64) evaluation.Result {
	return evaluation.Result{QuestionID: id, Category: cat, Score: score, Confidence: conf, Tier: evaluation.TierRule}
}

func TestGenerate_Empty(t *testing.T) {
	_, err := Generate(completedSession(taxonomy.RoleBasic), nil)
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("err = %v, want InsufficientDataError", err)
	}
	if ide.Retryable() {
		t.Error("InsufficientDataError should not be retryable")
	}
}

func TestGenerate_RequiresCompletedSession(t *testing.T) {
	s := completedSession(taxonomy.RoleBasic)
	s.Status = interview.StatusPaused
	if _, err := Generate(s, []evaluation.Result{result("q1", taxonomy.CategoryBasicFormulas, 90, 0.9)}); err == nil {
		t.Error("report generated for a paused session")
	}
}

func TestGenerate_LowCompletionForcesInsufficientData(t *testing.T) {
	history := []evaluation.Result{
		result("q1", taxonomy.CategoryBasicFormulas, 100, 0.9),
		result("q2", taxonomy.CategoryDataManipulation, 100, 0.9),
	}
	r, err := Generate(completedSession(taxonomy.RoleBasic), history)
	if err != nil {
		t.Fatal(err)
	}
	if r.CompletionRate != 0.2 {
		t.Errorf("CompletionRate = %v, want 0.2", r.CompletionRate)
	}
	if r.Recommendation != InsufficientData {
		t.Errorf("Recommendation = %s, want insufficient_data despite a perfect score", r.Recommendation)
	}
}

func TestGenerate_StrengthsAndImprovements(t *testing.T) {
	history := []evaluation.Result{
		result("q1", taxonomy.CategoryPivotTables, 90, 0.9),
		result("q2", taxonomy.CategoryBasicFormulas, 85, 0.9),
		result("q3", taxonomy.CategoryDataAnalysis, 30, 0.7),
		result("q4", taxonomy.CategoryDataManipulation, 70, 0.7),
		result("q5", taxonomy.CategoryBasicFormulas, 95, 0.9),
	}
	r, err := Generate(completedSession(taxonomy.RoleIntermediate), history)
	if err != nil {
		t.Fatal(err)
	}

	var strengths []taxonomy.Category
	for _, n := range r.Strengths {
		strengths = append(strengths, n.Category)
	}
	want := []taxonomy.Category{taxonomy.CategoryBasicFormulas, taxonomy.CategoryPivotTables}
	if !reflect.DeepEqual(strengths, want) {
		t.Errorf("strengths = %v, want %v (enumeration order)", strengths, want)
	}
	if len(r.Improvements) != 1 || r.Improvements[0].Category != taxonomy.CategoryDataAnalysis {
		t.Errorf("improvements = %+v, want data_analysis only", r.Improvements)
	}
	if r.Duration != 42*time.Minute {
		t.Errorf("Duration = %v, want 42m", r.Duration)
	}
	if r.Questions[0].Answer != "=SUM(A1:A10)" || r.Questions[0].Prompt != "Sum A1:A10" {
		t.Errorf("question feedback = %+v", r.Questions[0])
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		level   taxonomy.RoleLevel
		overall float64
		want    Recommendation
	}{
		{taxonomy.RoleBasic, 85, StrongHire},
		{taxonomy.RoleBasic, 84.9, Hire},
		{taxonomy.RoleBasic, 70, Hire},
		{taxonomy.RoleBasic, 69.9, NoHire},
		{taxonomy.RoleIntermediate, 80, StrongHire},
		{taxonomy.RoleIntermediate, 65, Hire},
		{taxonomy.RoleIntermediate, 64, NoHire},
		{taxonomy.RoleAdvanced, 75, StrongHire},
		{taxonomy.RoleAdvanced, 60, Hire},
		{taxonomy.RoleAdvanced, 59, NoHire},
	}
	for _, tt := range tests {
		th, err := ThresholdsFor(tt.level)
		if err != nil {
			t.Fatal(err)
		}
		if got := Recommend(tt.overall, 1, th); got != tt.want {
			t.Errorf("Recommend(%s, %v) = %s, want %s", tt.level, tt.overall, got, tt.want)
		}
	}
}

func TestPercentileLadder(t *testing.T) {
	tests := []struct {
		diff float64
		want int
	}{
		{20, 90}, {15, 90}, {14.9, 80}, {10, 80}, {5, 70}, {0, 60},
		{-0.1, 50}, {-5, 50}, {-10, 40}, {-15, 30}, {-15.1, 20}, {-40, 20},
	}
	for _, tt := range tests {
		if got := Percentile(tt.diff); got != tt.want {
			t.Errorf("Percentile(%v) = %d, want %d", tt.diff, got, tt.want)
		}
	}
}

func TestBenchmarkFor(t *testing.T) {
	tests := []struct {
		diff float64
		want Benchmark
	}{
		{12, BenchmarkWellAbove}, {5, BenchmarkAbove}, {0, BenchmarkAverage},
		{-5, BenchmarkAverage}, {-7, BenchmarkBelow}, {-11, BenchmarkWellBelow},
	}
	for _, tt := range tests {
		if got := BenchmarkFor(tt.diff); got != tt.want {
			t.Errorf("BenchmarkFor(%v) = %s, want %s", tt.diff, got, tt.want)
		}
	}
}

func TestCompareToBaseline(t *testing.T) {
	scores := scoring.Recompute([]scoring.Scored{{Category: taxonomy.CategoryPivotTables, Score: 80}},
		taxonomy.MustRoleWeights(taxonomy.RoleIntermediate))
	cmp, err := CompareToBaseline(scores, taxonomy.RoleIntermediate)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Difference != 10 || cmp.Percentile != 80 || cmp.Benchmark != BenchmarkWellAbove {
		t.Errorf("comparison = %+v", cmp)
	}
	if len(cmp.Categories) != 1 || cmp.Categories[taxonomy.CategoryPivotTables] != 12 {
		t.Errorf("category deltas = %v, want pivot_tables +12 only", cmp.Categories)
	}
}

func TestBaselines_CoverEveryRoleAndCategory(t *testing.T) {
	for _, level := range taxonomy.AllRoleLevels() {
		b, err := BaselineFor(level)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range taxonomy.AllCategories() {
			if _, ok := b.Categories[c]; !ok {
				t.Errorf("%s baseline missing %s", level, c)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	history := []evaluation.Result{
		result("q1", taxonomy.CategoryPivotTables, 66, 0.6),
		result("q2", taxonomy.CategoryAdvancedFunctions, 91, 0.9),
		result("q3", taxonomy.CategoryDataVisualization, 48, 0.2),
		result("q4", taxonomy.CategoryBasicFormulas, 77, 0.7),
		result("q5", taxonomy.CategoryDataAnalysis, 59, 0.7),
	}
	s := completedSession(taxonomy.RoleAdvanced)
	s.MaxQuestions = 8
	a, err := Generate(s, history)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(s, history)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Generate is not deterministic")
	}
	if a.ConfidenceNote == "" {
		t.Error("missing confidence note")
	}
}

func TestGenerate_UsesSessionBudget(t *testing.T) {
	history := []evaluation.Result{
		result("q1", taxonomy.CategoryBasicFormulas, 90, 0.9),
		result("q2", taxonomy.CategoryDataManipulation, 90, 0.9),
		result("q3", taxonomy.CategoryPivotTables, 90, 0.9),
		result("q4", taxonomy.CategoryDataAnalysis, 90, 0.9),
	}
	s := completedSession(taxonomy.RoleBasic)
	s.MaxQuestions = 4

	r, err := Generate(s, history)
	if err != nil {
		t.Fatal(err)
	}
	if r.CompletionRate != 1 {
		t.Errorf("CompletionRate = %v, want 1", r.CompletionRate)
	}
	if r.Recommendation != StrongHire {
		t.Errorf("Recommendation = %s, want strong_hire", r.Recommendation)
	}

	s.MaxQuestions = 0
	if r, _ := Generate(s, history); r.CompletionRate != 1 {
		t.Errorf("CompletionRate without a recorded budget = %v, want 1", r.CompletionRate)
	}
}
