package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/app"
	"github.com/abhisek/skillprobe/internal/catalog"
	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/report"
	"github.com/abhisek/skillprobe/internal/selector"
	"github.com/abhisek/skillprobe/internal/taxonomy"
	"github.com/abhisek/skillprobe/internal/ui/reportview"
	"github.com/abhisek/skillprobe/internal/ui/theme"
)

// Answers typed at the prompt that control the session instead of being scored.
const (
	commandPause = "/pause"
	commandSkip  = "/skip"
	commandQuit  = "/quit"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start a new interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate, _ := cmd.Flags().GetString("candidate")
		roleFlag, _ := cmd.Flags().GetString("role")

		if candidate == "" {
			var err error
			if candidate, err = promptCandidate(); err != nil {
				return err
			}
		}

		role, err := resolveRole(roleFlag)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		s, err := a.Manager.Start(ctx, candidate, role)
		if err != nil {
			var active *interview.ActiveSessionError
			if errors.As(err, &active) {
				return fmt.Errorf("%w (continue it with: skillprobe resume %s)", err, active.SessionID)
			}
			return err
		}

		fmt.Println(theme.Title.Render("Excel skills interview"))
		fmt.Println(theme.Hint.Render(fmt.Sprintf("Session %s. Up to %d questions. Type %s to pause, %s to finish early.",
			s.ID, s.MaxQuestions, commandPause, commandQuit)))

		return runInterview(ctx, a, s.ID)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Resume a paused or interrupted interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		s, err := a.Manager.Load(ctx, args[0])
		if err != nil {
			return err
		}

		switch s.Status {
		case interview.StatusCompleted:
			return fmt.Errorf("session %s is already completed; view it with: skillprobe report %s", s.ID, s.ID)
		case interview.StatusPaused:
			if _, err := a.Manager.Resume(ctx, s.ID); err != nil {
				return err
			}
		}

		fmt.Println(theme.Hint.Render(fmt.Sprintf("Resuming session %s for %s at question %d.",
			s.ID, s.CandidateID, s.QuestionIndex+1)))
		return runInterview(ctx, a, s.ID)
	},
}

// runInterview drives an active session until it completes or the
// candidate pauses.
func runInterview(ctx context.Context, a *app.App, sessionID string) error {
	for {
		s, err := a.Manager.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if interview.ShouldComplete(s) {
			break
		}

		q, err := a.Manager.DeliverNextQuestion(ctx, sessionID)
		if errors.Is(err, selector.ErrExhausted) {
			fmt.Println(theme.Hint.Render("No more questions available for this role."))
			break
		}
		if err != nil {
			return err
		}

		printQuestion(s.QuestionIndex+1, s.MaxQuestions, q)

		answer, err := promptAnswer()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return pauseSession(ctx, a, sessionID)
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(answer) {
		case commandPause:
			return pauseSession(ctx, a, sessionID)
		case commandQuit:
			return finishSession(ctx, a, sessionID)
		case commandSkip:
			answer = ""
		}

		res, err := a.Manager.SubmitResponse(ctx, sessionID, answer)
		if err != nil {
			if interview.IsRetryable(err) {
				a.Logger.Warn("evaluation failed", zap.Error(err))
				fmt.Println(theme.Weak.Render("Scoring is temporarily unavailable; please answer again."))
				continue
			}
			return err
		}
		printResult(res)
	}
	return finishSession(ctx, a, sessionID)
}

func pauseSession(ctx context.Context, a *app.App, sessionID string) error {
	if _, err := a.Manager.Pause(ctx, sessionID); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(theme.Hint.Render(fmt.Sprintf("Interview paused. Continue with: skillprobe resume %s", sessionID)))
	return nil
}

func finishSession(ctx context.Context, a *app.App, sessionID string) error {
	s, err := a.Manager.Complete(ctx, sessionID)
	if err != nil {
		return err
	}

	history, err := a.Store.SessionRepo().ListEvaluations(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load evaluations: %w", err)
	}
	r, err := report.Generate(s, history)
	var insufficient *report.InsufficientDataError
	if errors.As(err, &insufficient) {
		fmt.Println(theme.Hint.Render("Interview ended before any answers were scored."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	lipgloss.Println(reportview.Render(r, false))
	return nil
}

func printQuestion(n, total int, q *catalog.Question) {
	fmt.Println()
	header := fmt.Sprintf("Question %d of %d  %s / %s", n, total, q.Category.DisplayName(), q.Difficulty)
	lipgloss.Println(theme.Section.Render(header))
	lipgloss.Println(theme.Body.Render(q.Prompt))
}

func printResult(res *evaluation.Result) {
	style := lipgloss.NewStyle().Bold(true).Foreground(theme.ScoreColor(res.Score))
	lipgloss.Println(style.Render(fmt.Sprintf("Score %.0f", res.Score)) +
		theme.Hint.Render(fmt.Sprintf("  confidence %.2f", res.Confidence)))
	if res.Rationale != "" {
		lipgloss.Println(theme.Hint.Render(res.Rationale))
	}
	if res.SuggestedFollowUp != "" {
		lipgloss.Println(theme.Body.Render("Follow-up: " + res.SuggestedFollowUp))
	}
}

func promptCandidate() (string, error) {
	p := promptui.Prompt{
		Label: "Candidate ID",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("candidate ID is required")
			}
			return nil
		},
	}
	s, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func promptAnswer() (string, error) {
	p := promptui.Prompt{Label: "Answer"}
	return p.Run()
}

// resolveRole parses the --role flag or asks for one.
func resolveRole(flag string) (taxonomy.RoleLevel, error) {
	if flag != "" {
		return taxonomy.ParseRoleLevel(flag)
	}

	levels := taxonomy.AllRoleLevels()
	items := make([]string, len(levels))
	for i, l := range levels {
		items[i] = string(l)
	}
	sel := promptui.Select{
		Label: "Role level",
		Items: items,
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return levels[i], nil
}

func init() {
	interviewCmd.Flags().StringP("candidate", "c", "", "candidate ID")
	interviewCmd.Flags().StringP("role", "r", "", "role level (basic, intermediate, advanced)")
}
