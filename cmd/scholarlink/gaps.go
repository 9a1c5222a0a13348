package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func gapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Discover and manage research gaps",
	}
	cmd.AddCommand(gapsDiscoverCmd())
	cmd.AddCommand(gapsSavedCmd())
	cmd.AddCommand(gapsDeleteCmd())
	return cmd
}

func gapsDiscoverCmd() *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "discover <mentor-id> <student-id>",
		Short: "Suggest research gaps for a mentor/student pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mentorID, err := parseID(args[0], "mentor id")
			if err != nil {
				return err
			}
			studentID, err := parseID(args[1], "student id")
			if err != nil {
				return err
			}
			indices, err := parseIndices(save)
			if err != nil {
				return err
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()

			gaps, err := e.engine.Gaps.Discover(ctx, e.sess, mentorID, studentID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(gaps) == 0 {
				fmt.Fprintln(out, "No research gaps found for this pair.")
				return nil
			}
			for _, i := range indices {
				saved, err := e.engine.Gaps.Save(ctx, e.sess, i)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "save #%d: %s\n", i, displayMessage(err))
					continue
				}
				fmt.Fprintf(out, "Saved #%d as %s.\n", i, saved.ID)
			}

			tw := newTable(out, "#", "TITLE", "TYPE", "FEASIBILITY", "PAPERS", "SAVED")
			for _, g := range e.engine.Gaps.Suggestions() {
				saved := ""
				if g.Saved {
					saved = "yes"
				}
				row(tw, g.Index, truncate(g.Gap.Title, 50), g.Gap.Type, fmt.Sprintf("%.2f", g.Gap.FeasibilityScore), len(g.Gap.RelatedPapers), saved)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "comma-separated indices to save, e.g. 0,2")
	return cmd
}

func parseIndices(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, apierr.Validationf("invalid index %q", part)
		}
		out = append(out, i)
	}
	return out, nil
}

func gapsSavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved research gaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Gaps.ListSaved(cmd.Context(), e.sess); err != nil {
				return err
			}
			saved := e.engine.Gaps.Saved()
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved research gaps.")
				return nil
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "TITLE", "PAPERS", "SAVED")
			for _, g := range saved {
				row(tw, g.ID, truncate(g.Title, 50), truncate(strings.Join(g.RelatedPapers, "; "), 60), g.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

func gapsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <saved-gap-id>",
		Short: "Delete a saved research gap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "saved gap id")
			if err != nil {
				return err
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Gaps.DeleteSaved(cmd.Context(), e.sess, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", id)
			return nil
		},
	}
}
