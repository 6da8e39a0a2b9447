package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/skillprobe/internal/llm"
	"github.com/abhisek/skillprobe/internal/taxonomy"
)

// LLMJudgeConfig holds configuration for the LLM-backed judge.
type LLMJudgeConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMJudgeConfig returns sensible defaults.
func DefaultLLMJudgeConfig() LLMJudgeConfig {
	return LLMJudgeConfig{
		MaxTokens:   768,
		Temperature: 0.2,
	}
}

// LLMJudge scores answers through an llm.Provider.
type LLMJudge struct {
	provider llm.Provider
	cfg      LLMJudgeConfig
}

var _ Judge = (*LLMJudge)(nil)

// NewLLMJudge creates an LLM-backed judge.
func NewLLMJudge(provider llm.Provider, cfg LLMJudgeConfig) *LLMJudge {
	return &LLMJudge{provider: provider, cfg: cfg}
}

// judgmentOutput is the raw LLM response.
type judgmentOutput struct {
	Score          float64 `json:"score"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
	PartialCredits []struct {
		Criterion string  `json:"criterion"`
		Points    float64 `json:"points"`
		Reasoning string  `json:"reasoning"`
	} `json:"partial_credits"`
	SuggestedFollowUp string `json:"suggested_follow_up"`
}

// Judge sends the answer and rubric to the LLM.
func (j *LLMJudge) Judge(ctx context.Context, req JudgeRequest) (*Judgment, error) {
	ctx = llm.WithPurpose(ctx, "answer-judgment")

	userMsg, err := buildJudgeMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build judge prompt: %w", err)
	}

	resp, err := j.provider.Generate(ctx, llm.Request{
		System: judgeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      JudgeSchema,
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM judgment failed: %w", err)
	}

	var raw judgmentOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("parse judgment: %w", err),
		}
	}

	out := &Judgment{
		Score:             clamp(raw.Score),
		Confidence:        min(max(raw.Confidence, 0), 1),
		Rationale:         raw.Rationale,
		SuggestedFollowUp: raw.SuggestedFollowUp,
	}
	for _, pc := range raw.PartialCredits {
		out.PartialCredits = append(out.PartialCredits, PartialCredit{
			Criterion: pc.Criterion,
			Points:    pc.Points,
			Reasoning: pc.Reasoning,
		})
	}
	return out, nil
}

const judgeSystemPrompt = `You are an expert Excel interviewer grading a candidate's free-text answer.

Instructions:
- Score the answer from 0 to 100 against the rubric. Reward correct Excel functions, features and reasoning.
- Calibrate to the target role level: an advanced role expects precise, efficient approaches.
- Use the rubric's criteria for partial_credits. Deductions are negative points.
- If rule evidence is listed, treat it as a hint, not a verdict.
- Provide a confidence score (0.0–1.0) reflecting how certain you are of the score.
- Suggest one follow-up question only if the answer leaves a clear gap; otherwise return an empty string.`

type judgePromptData struct {
	Category     string
	Difficulty   string
	RoleLevel    string
	Prompt       string
	Answer       string
	Rubric       string
	Scores       []categoryScore
	HasRuleScore bool
	RuleScore    float64
	Credits      []PartialCredit
}

type categoryScore struct {
	Name  string
	Score float64
}

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Category: {{.Category}} ({{.Difficulty}})
Role level: {{.RoleLevel}}

Question: {{.Prompt}}

Candidate's answer:
{{.Answer}}

Rubric:
{{.Rubric}}
{{if .Scores}}Current skill scores:
{{range .Scores}}- {{.Name}}: {{printf "%.0f" .Score}}
{{end}}{{end}}{{if .HasRuleScore}}Rule evidence (tentative score {{printf "%.0f" .RuleScore}}):
{{range .Credits}}- {{.Criterion}}: {{printf "%+.0f" .Points}}
{{end}}{{end}}`))

func buildJudgeMessage(req JudgeRequest) (string, error) {
	data := judgePromptData{
		Category:   req.Question.Category.DisplayName(),
		Difficulty: string(req.Question.Difficulty),
		RoleLevel:  string(req.RoleLevel),
		Prompt:     req.Question.Prompt,
		Answer:     req.Answer,
		Rubric:     req.RubricText,
		Credits:    req.RuleCredits,
	}
	if req.RuleScore != nil {
		data.HasRuleScore = true
		data.RuleScore = *req.RuleScore
	}
	for _, c := range taxonomy.AllCategories() {
		if s, ok := req.Scores[c]; ok && s > 0 {
			data.Scores = append(data.Scores, categoryScore{Name: c.DisplayName(), Score: s})
		}
	}
	var buf bytes.Buffer
	if err := judgeUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
