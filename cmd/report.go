package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillprobe/internal/report"
	"github.com/abhisek/skillprobe/internal/store"
	"github.com/abhisek/skillprobe/internal/ui/reportview"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Show the assessment report for a completed interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detailed, _ := cmd.Flags().GetBool("detailed")
		asJSON, _ := cmd.Flags().GetBool("json-output")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openConfiguredStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.SessionRepo()
		sess, err := repo.LoadSession(ctx, args[0])
		if err != nil {
			return err
		}
		history, err := repo.ListEvaluations(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("load evaluations: %w", err)
		}

		r, err := report.Generate(sess, history)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		lipgloss.Println(reportview.Render(r, detailed))
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded interview sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		candidate, _ := cmd.Flags().GetString("candidate")
		status, _ := cmd.Flags().GetString("status")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.SessionRepo().ListSessions(cmd.Context(), store.SessionFilter{
			CandidateID: candidate,
			Status:      status,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-12s  %-9s  %4s  %7s  %s\n",
			"ID", "Candidate", "Role", "Status", "Q", "Overall", "Started")
		fmt.Println(strings.Repeat("─", 110))
		for _, ss := range list {
			fmt.Printf("%-36s  %-16s  %-12s  %-9s  %4d  %7.1f  %s\n",
				ss.ID,
				truncate(ss.CandidateID, 16),
				ss.RoleLevel,
				ss.Status,
				ss.QuestionIndex,
				ss.OverallScore,
				ss.StartedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("detailed", false, "include every question, answer and rationale")
	reportCmd.Flags().Bool("json-output", false, "print the report as JSON")

	sessionsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	sessionsCmd.Flags().StringP("candidate", "c", "", "Filter by candidate ID")
	sessionsCmd.Flags().String("status", "", "Filter by status (active, paused, completed)")
}
