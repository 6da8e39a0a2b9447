// Package evaluation scores free-text answers with deterministic rubric rules
// first and an AI judge when the rules are not conclusive.
package evaluation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/logger"
	"github.com/abhisek/skillprobe/internal/metrics"
)

// Config controls the confidence gate and AI call bound.
type Config struct {
	// ConfidenceGate is the rule confidence above which the AI is skipped.
	ConfidenceGate float64
	// Timeout bounds each AI judge call.
	Timeout time.Duration
}

// DefaultConfig returns the standard gate and timeout.
func DefaultConfig() Config {
	return Config{
		ConfidenceGate: DefaultConfidenceGate,
		Timeout:        DefaultJudgeTimeout,
	}
}

// Evaluator is the hybrid answer scorer. It retries nothing itself.
type Evaluator struct {
	judge  Judge
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Evaluator. If judge is nil, low-confidence rule results are
// returned as-is.
func New(judge Judge, cfg Config, log *zap.Logger) *Evaluator {
	if cfg.ConfidenceGate <= 0 {
		cfg.ConfidenceGate = DefaultConfidenceGate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultJudgeTimeout
	}
	return &Evaluator{judge: judge, cfg: cfg, logger: logger.OrNop(log), now: time.Now}
}

// HasJudge reports whether an AI tier is configured.
func (e *Evaluator) HasJudge() bool {
	return e.judge != nil
}

// Evaluate scores answer against q.
func (e *Evaluator) Evaluate(ctx context.Context, q catalog.Question, answer string, ec Context) (*Result, error) {
	res := &Result{
		QuestionID:  q.ID,
		Category:    q.Category,
		EvaluatedAt: e.now(),
	}

	if strings.TrimSpace(answer) == "" {
		res.Score = 0
		res.Confidence = EmptyAnswerConfidence
		res.Rationale = "No answer was given."
		res.Tier = TierEmpty
		e.finish(q, res)
		return res, nil
	}

	rule := applyRules(q, answer)
	e.logger.Debug("rule tier",
		zap.String("question_id", q.ID),
		zap.Bool("matched", rule.matched),
		zap.Float64("score", rule.score),
		zap.Float64("confidence", rule.confidence),
	)

	if rule.confidence > e.cfg.ConfidenceGate {
		res.Score = rule.score
		res.Confidence = rule.confidence
		res.Rationale = rule.rationale
		res.PartialCredits = rule.credits
		res.Tier = TierRule
		e.finish(q, res)
		return res, nil
	}

	if e.judge == nil {
		res.Score = rule.score
		res.Confidence = rule.confidence
		res.Rationale = rule.rationale
		if !rule.matched {
			res.Rationale = "No expected pattern or rubric rule matched."
		}
		res.PartialCredits = rule.credits
		res.Tier = TierRuleOnly
		e.finish(q, res)
		return res, nil
	}

	j, err := e.callJudge(ctx, q, answer, ec, rule)
	if err != nil {
		return nil, err
	}

	res.Score = clamp(j.Score)
	res.Confidence = max(j.Confidence, rule.confidence)
	res.Rationale = j.Rationale
	res.PartialCredits = append(append([]PartialCredit(nil), j.PartialCredits...), rule.credits...)
	res.SuggestedFollowUp = j.SuggestedFollowUp
	res.Tier = TierAI
	e.finish(q, res)
	return res, nil
}

func (e *Evaluator) callJudge(ctx context.Context, q catalog.Question, answer string, ec Context, rule ruleOutcome) (*Judgment, error) {
	req := JudgeRequest{
		Question:    q,
		Answer:      answer,
		RubricText:  q.Rubric.Text(),
		RoleLevel:   ec.RoleLevel,
		Scores:      ec.Scores,
		RuleCredits: rule.credits,
	}
	if rule.matched {
		s := rule.score
		req.RuleScore = &s
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	start := time.Now()
	j, err := e.judge.Judge(ctx, req)
	metrics.JudgeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			metrics.EvaluationFailures.WithLabelValues("timeout").Inc()
			e.logger.Warn("judge timed out",
				zap.String("question_id", q.ID),
				zap.Duration("timeout", e.cfg.Timeout),
			)
			return nil, &TimeoutError{QuestionID: q.ID, Timeout: e.cfg.Timeout, Err: err}
		}
		je := &JudgeError{QuestionID: q.ID, Transient: isTransient(err), Err: err}
		metrics.EvaluationFailures.WithLabelValues("judge").Inc()
		e.logger.Warn("judge failed",
			zap.String("question_id", q.ID),
			zap.Bool("retryable", je.Transient),
			zap.Error(err),
		)
		return nil, je
	}
	if j == nil {
		metrics.EvaluationFailures.WithLabelValues("judge").Inc()
		return nil, &JudgeError{QuestionID: q.ID, Err: errors.New("judge returned no verdict")}
	}
	return j, nil
}

// finish fills the follow-up suggestion and records the outcome.
func (e *Evaluator) finish(q catalog.Question, res *Result) {
	if res.SuggestedFollowUp == "" {
		s, err := renderFollowUp(q, res.Score)
		if err != nil {
			e.logger.Warn("follow-up template failed", zap.String("question_id", q.ID), zap.Error(err))
		}
		res.SuggestedFollowUp = s
	}
	metrics.Evaluations.WithLabelValues(string(res.Tier)).Inc()
	e.logger.Debug("answer evaluated",
		zap.String("question_id", q.ID),
		zap.String("tier", string(res.Tier)),
		zap.Float64("score", res.Score),
		zap.Float64("confidence", res.Confidence),
	)
}
