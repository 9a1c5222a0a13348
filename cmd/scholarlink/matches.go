package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/scholarlink/internal/engagement"
)

func matchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches",
		Short: "List your ranked opportunity matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Matches.Load(cmd.Context(), e.sess); err != nil {
				return err
			}
			matches := e.engine.Matches.Matches()
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches yet.")
				return nil
			}
			tw := newTable(cmd.OutOrStdout(), "RANK", "OPPORTUNITY", "TITLE", "SCORE", "MISSING")
			for _, m := range matches {
				row(tw, m.Rank, m.OpportunityID, truncate(m.Title, 40), fmt.Sprintf("%.1f", m.MatchScore), strings.Join(m.MissingSkills, ", "))
			}
			return tw.Flush()
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <opportunity-id>",
		Short: "Analyze your fit for one opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oppID, err := parseID(args[0], "opportunity id")
			if err != nil {
				return err
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			<-e.engine.Preview.Start(cmd.Context(), e.sess, oppID)
			st := e.engine.Preview.State()
			if st.Status != engagement.PreviewReady || st.Result == nil {
				return &displayError{msg: st.Message, err: st.Err}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Score: %.1f\n", st.Result.Score)
			fmt.Fprintf(out, "%s\n", st.Result.Explanation)
			if len(st.Result.MissingSkills) > 0 {
				fmt.Fprintf(out, "Missing skills: %s\n", strings.Join(st.Result.MissingSkills, ", "))
			}
			return nil
		},
	}
}
