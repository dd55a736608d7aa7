package main

import (
	"fmt"
	"strings"

	"github.com/estudociclo/internal/db"
	"github.com/estudociclo/internal/service"
	"github.com/spf13/cobra"
)

func newCycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Manage the study cycle queue",
	}
	cmd.AddCommand(
		newCycleGenerateCmd(),
		newCycleListCmd(),
		newCycleStatsCmd(),
		newCycleClearCmd(),
		newCycleDeleteItemCmd(),
	)
	return cmd
}

func newCycleGenerateCmd() *cobra.Command {
	var (
		keepProgress bool
		subjectIDs   []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new cycle from the active subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected := subjectIDs
			if len(selected) == 0 {
				// 默认使用全部激活学科，创建顺序即选择顺序
				active, err := service.NewSubjectService(db.DB).ListActive(userKey)
				if err != nil {
					return err
				}
				for _, sub := range active {
					selected = append(selected, sub.ID)
				}
			}

			result, err := service.NewCycleService(db.DB).Generate(userKey, selected, keepProgress)
			if err != nil {
				return err
			}

			fmt.Printf("generated %d sessions\n", len(result.Items))
			if len(result.Skipped) > 0 {
				fmt.Printf("warning: unknown subject ids skipped: %s\n", strings.Join(result.Skipped, ", "))
			}
			if result.Degraded {
				fmt.Println("warning: storage rejected optional fields, sessions saved without history/completion metadata")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepProgress, "keep-progress", false, "seed sessions from current aggregates and append to the queue")
	cmd.Flags().StringSliceVar(&subjectIDs, "subjects", nil, "explicit subject ids in selection order")
	return cmd
}

func newCycleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the queue in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := service.NewCycleService(db.DB).List(userKey)
			if err != nil {
				return err
			}
			for _, item := range items {
				status := "[ ]"
				if item.Completed {
					status = "[x]"
				}
				fmt.Printf("%s %-36s %-20s %.1fh  %d/%d\n",
					status, item.ID, item.Name, item.HoursPerSession, item.Correct, item.Wrong)
			}
			return nil
		},
	}
}

func newCycleStatsCmd() *cobra.Command {
	var subjectID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := service.NewCycleService(db.DB).Stats(userKey, subjectID)
			if err != nil {
				return err
			}
			fmt.Printf("correct: %d (%d%%)\n", stats.Correct, stats.CorrectPct)
			fmt.Printf("wrong:   %d (%d%%)\n", stats.Wrong, stats.WrongPct)
			fmt.Printf("hours studied: %.1f, to study: %.1f\n", stats.HoursStudied, stats.HoursToStudy)
			return nil
		},
	}

	cmd.Flags().StringVar(&subjectID, "subject", "", "restrict to one subject id")
	return cmd
}

func newCycleClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every session from the queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return service.NewCycleService(db.DB).Clear(userKey)
		},
	}
}

func newCycleDeleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <id>",
		Short: "Remove a single session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.NewCycleService(db.DB).DeleteItem(userKey, args[0])
		},
	}
}
