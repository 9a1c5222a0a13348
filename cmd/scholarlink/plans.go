package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	types "github.com/yungbote/scholarlink/internal/domain"
	"github.com/yungbote/scholarlink/internal/engagement"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

func plansCmd() *cobra.Command {
	var planID string
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Show your improvement plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Plans.Load(cmd.Context(), e.sess); err != nil {
				return err
			}
			if !e.engine.Plans.HasPlans() {
				fmt.Fprintln(cmd.OutOrStdout(), "No improvement plans yet. Generate one with `scholarlink plan generate <opportunity-id>`.")
				return nil
			}
			if planID != "" {
				id, err := parseID(planID, "plan id")
				if err != nil {
					return err
				}
				if err := e.engine.Plans.SelectPlan(id); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			tw := newTable(out, "PLAN", "OPPORTUNITY", "PROGRESS", "DEADLINE", "DAYS LEFT")
			for _, v := range e.engine.Plans.Plans() {
				row(tw, v.Plan.ID, truncate(v.Plan.OpportunityTitle, 40), fmt.Sprintf("%d%%", v.Progress), v.Deadline.Format("2006-01-02"), v.DaysRemaining)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if sel, ok := e.engine.Plans.Selected(); ok {
				fmt.Fprintf(out, "\n%s\n", sel.Plan.OpportunityTitle)
				printItems(cmd, sel)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&planID, "plan", "", "plan to show in detail (default: first)")
	return cmd
}

func printItems(cmd *cobra.Command, v engagement.PlanView) {
	tw := newTable(cmd.OutOrStdout(), "ITEM", "TYPE", "TITLE", "PRIORITY", "DUE", "STATUS")
	for _, it := range v.Plan.Items {
		row(tw, it.ID, it.Type, truncate(it.Title, 40), it.Priority, dateOrDash(it.Deadline), it.Status)
	}
	_ = tw.Flush()
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Improvement plan actions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate <opportunity-id>",
		Short: "Generate an improvement plan for an opportunity",
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
			if err := e.engine.Plans.Load(cmd.Context(), e.sess); err != nil {
				return err
			}
			plan, err := e.engine.Plans.Generate(cmd.Context(), e.sess, oppID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan %s with %d items.\n", plan.ID, len(plan.Items))
			if sel, ok := e.engine.Plans.Selected(); ok {
				printItems(cmd, sel)
			}
			return nil
		},
	})
	return cmd
}

func taskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task <item-id> <pending|in_progress|completed>",
		Short: "Update the status of a plan item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item id")
			if err != nil {
				return err
			}
			status := types.PlanItemStatus(strings.ToLower(strings.ReplaceAll(args[1], "-", "_")))
			if !status.Valid() {
				return apierr.Validationf("unknown status %q", args[1])
			}
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.engine.Plans.Load(cmd.Context(), e.sess); err != nil {
				return err
			}
			if err := e.engine.Plans.UpdateItemStatus(cmd.Context(), e.sess, itemID, status); err != nil {
				return err
			}
			for _, v := range e.engine.Plans.Plans() {
				for _, it := range v.Plan.Items {
					if it.ID == itemID {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (plan %d%% done)\n", truncate(it.Title, 50), it.Status, v.Progress)
					}
				}
			}
			return nil
		},
	}
}
