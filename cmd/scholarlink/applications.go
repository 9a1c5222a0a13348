package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func applyCmd() *cobra.Command {
	var (
		letter     string
		letterFile string
		details    string
	)
	cmd := &cobra.Command{
		Use:   "apply <opportunity-id>",
		Short: "Submit an application to an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oppID, err := parseID(args[0], "opportunity id")
			if err != nil {
				return err
			}
			if letterFile != "" {
				raw, err := os.ReadFile(letterFile)
				if err != nil {
					return fmt.Errorf("read cover letter: %w", err)
				}
				letter = string(raw)
			}
			var matchDetails map[string]any
			if strings.TrimSpace(details) != "" {
				if err := json.Unmarshal([]byte(details), &matchDetails); err != nil {
					return apierr.Validationf("--details must be a JSON object: %v", err)
				}
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()

			if err := e.engine.Applications.ListMine(ctx, e.sess); err != nil {
				return err
			}
			var score *float64
			if err := e.engine.Matches.Load(ctx, e.sess); err == nil {
				if m, ok := e.engine.Matches.Lookup(oppID); ok {
					s := m.MatchScore
					score = &s
				}
			}
			app, err := e.engine.Applications.Submit(ctx, e.sess, oppID, letter, score, matchDetails)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s submitted (%s).\n", app.ID, app.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&letter, "letter", "", "cover letter text")
	cmd.Flags().StringVar(&letterFile, "letter-file", "", "read the cover letter from a file")
	cmd.Flags().StringVar(&details, "details", "", "match details as a JSON object")
	return cmd
}

func applicationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "applications",
		Short: "List your applications (or, for mentors, applications to review)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if e.sess.IsMentor() {
				err = e.engine.Applications.ListForMentor(cmd.Context(), e.sess)
			} else {
				err = e.engine.Applications.ListMine(cmd.Context(), e.sess)
			}
			if err != nil {
				return err
			}
			printApplications(cmd, e.engine.Applications.Applications())
			return nil
		},
	}
}

func printApplications(cmd *cobra.Command, apps []types.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No applications.")
		return
	}
	tw := newTable(cmd.OutOrStdout(), "ID", "OPPORTUNITY", "STUDENT", "STATUS", "SUBMITTED")
	for _, a := range apps {
		title := a.OpportunityID.String()
		if a.Opportunity != nil && a.Opportunity.Title != "" {
			title = truncate(a.Opportunity.Title, 40)
		}
		row(tw, a.ID, title, shortID(a.StudentID), a.Status, a.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <application-id> <reviewing|accepted|rejected>",
		Short: "Change an application's status (mentors)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseID(args[0], "application id")
			if err != nil {
				return err
			}
			status := types.ApplicationStatus(strings.ToLower(args[1]))
			if !status.Valid() {
				return apierr.Validationf("unknown status %q", args[1])
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Applications.ListForMentor(cmd.Context(), e.sess); err != nil {
				return err
			}
			if err := e.engine.Applications.UpdateStatus(cmd.Context(), e.sess, appID, status); err != nil {
				return err
			}
			app, _ := e.engine.Applications.Get(appID)
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s is now %s.\n", appID, app.Status)
			return nil
		},
	}
}
