package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"training-assessment-service/internal/app"
	"training-assessment-service/internal/catalog"
	"training-assessment-service/internal/config"
	"training-assessment-service/internal/domain"
)

// NewPlayCmd runs an assessment in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var setID, userID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take an assessment in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			service := app.NewAssessmentService(d.sessions, d.questions, d.results)
			return Play(cmd.Context(), service, setID, userID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&setID, "set", catalog.MicrointeractionsID, "question set to take")
	cmd.Flags().StringVar(&userID, "user", "", "user id to save the result under")
	return cmd
}

// Play drives one session from line-based input: an option id answers, any
// line continues after feedback, and "restart" begins again.
func Play(ctx context.Context, service *app.AssessmentService, setID, userID string, in io.Reader, out io.Writer) error {
	sessionID, snap, err := service.Start(ctx, setID, userID)
	if err != nil {
		return err
	}
	defer service.End(ctx, sessionID)

	reader := bufio.NewReader(in)
	for !snap.IsFinished {
		q := snap.CurrentQuestion
		printQuestion(out, snap, q)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("input ended before the assessment finished")
			}
			return err
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "restart" {
			if snap, err = service.Restart(ctx, sessionID); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nRestarted.")
			continue
		}

		snap, err = service.Answer(ctx, sessionID, choice)
		if errors.Is(err, domain.ErrInvalidOption) {
			fmt.Fprintf(out, "\n%q is not an option, try again.\n", choice)
			continue
		}
		if err != nil {
			return err
		}

		last := snap.Answers[len(snap.Answers)-1]
		if last.IsCorrect {
			fmt.Fprintln(out, "\nCorrect!")
		} else {
			fmt.Fprintf(out, "\nIncorrect. The answer was %s.\n", strings.ToUpper(last.CorrectOptionID))
		}
		fmt.Fprintf(out, "Explanation: %s\n", q.Explanation)
		fmt.Fprintf(out, "Score %d  Time %s  (press enter to continue)\n", snap.Score, formatElapsed(snap.ElapsedTotalSeconds))
		if _, err := reader.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if snap, err = service.Advance(ctx, sessionID); err != nil {
			return err
		}
	}

	summary, err := service.Summary(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nResults: %s\n", tierMessage(summary.Tier()))
	fmt.Fprintf(out, "Score: %d/%d\n", summary.Score, summary.TotalQuestions)
	fmt.Fprintf(out, "Time: %s\n", formatElapsed(summary.ElapsedTotalSeconds))

	if userID == "" {
		return nil
	}
	result, err := service.Submit(ctx, sessionID)
	if err != nil {
		fmt.Fprintf(out, "Your result could not be saved: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "Saved result %s\n", result.ID)
	return nil
}

func printQuestion(out io.Writer, snap domain.Snapshot, q *domain.Question) {
	fmt.Fprintf(out, "\nQuestion %d of %d  Score %d  Time %s\n\n", snap.CurrentIndex+1, snap.TotalQuestions, snap.Score, formatElapsed(snap.ElapsedTotalSeconds))
	fmt.Fprintf(out, "%s\n\n", q.Prompt)
	for _, opt := range q.Options {
		fmt.Fprintf(out, "%s. %s\n", strings.ToUpper(opt.ID), opt.Text)
	}
	fmt.Fprintln(out)
}

// formatElapsed renders seconds as m:ss.
func formatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func tierMessage(tier domain.Tier) string {
	switch tier {
	case domain.TierPerfect:
		return "Perfect! You got every question right."
	case domain.TierGreat:
		return "Great job!"
	case domain.TierGood:
		return "Good, with room to improve."
	default:
		return "Keep practising."
	}
}
