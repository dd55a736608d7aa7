package main

import (
	"fmt"
	"time"

	"github.com/estudociclo/internal/db"
	"github.com/estudociclo/internal/service"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a single study session",
	}
	cmd.AddCommand(
		newSessionCompleteCmd(),
		newSessionReopenCmd(),
		newSessionScoreCmd(),
		newSessionLinkCmd(),
		newSessionHistoryCmd(),
	)
	return cmd
}

func newSessionCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a session as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed := true
			item, err := service.NewSyncService(db.DB).ApplyUpdate(userKey, args[0], service.ItemUpdate{Completed: &completed})
			if err != nil {
				return err
			}
			fmt.Printf("completed %s, frozen score %d/%d\n", item.Name, item.Correct, item.Wrong)
			return nil
		},
	}
}

func newSessionReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed := false
			item, err := service.NewSyncService(db.DB).ApplyUpdate(userKey, args[0], service.ItemUpdate{Completed: &completed})
			if err != nil {
				return err
			}
			fmt.Printf("reopened %s\n", item.Name)
			return nil
		},
	}
}

func newSessionScoreCmd() *cobra.Command {
	var (
		correct int
		wrong   int
		addMode bool
	)

	cmd := &cobra.Command{
		Use:   "score <id>",
		Short: "Record quiz results for a pending session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 累加模式在这里换算成绝对值，同步协议只接受绝对值
			finalCorrect, finalWrong := correct, wrong
			if addMode {
				item, err := service.NewCycleService(db.DB).Get(userKey, args[0])
				if err != nil {
					return err
				}
				finalCorrect = item.Correct + correct
				finalWrong = item.Wrong + wrong
			}

			var update service.ItemUpdate
			if addMode || cmd.Flags().Changed("correct") {
				update.Correct = &finalCorrect
			}
			if addMode || cmd.Flags().Changed("wrong") {
				update.Wrong = &finalWrong
			}

			item, err := service.NewSyncService(db.DB).ApplyUpdate(userKey, args[0], update)
			if err != nil {
				return err
			}
			fmt.Printf("%s now at %d/%d (synced to pending repeats)\n", item.Name, item.Correct, item.Wrong)
			return nil
		},
	}

	cmd.Flags().IntVar(&correct, "correct", 0, "correct answers")
	cmd.Flags().IntVar(&wrong, "wrong", 0, "wrong answers")
	cmd.Flags().BoolVar(&addMode, "add", false, "add to the current tally instead of replacing it")
	return cmd
}

func newSessionLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <id> <url>",
		Short: "Update the notebook link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[1]
			item, err := service.NewSyncService(db.DB).ApplyUpdate(userKey, args[0], service.ItemUpdate{NotebookURL: &url})
			if err != nil {
				return err
			}
			fmt.Printf("link updated for %s\n", item.Name)
			return nil
		},
	}
}

func newSessionHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit log of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := service.NewCycleService(db.DB).Get(userKey, args[0])
			if err != nil {
				return err
			}
			for _, entry := range item.History {
				line := fmt.Sprintf("%s  [%s] %s", entry.Timestamp.Format(time.RFC3339), entry.Type, entry.Action)
				if entry.Details != "" {
					line += "  " + entry.Details
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
