package main

import (
	"fmt"

	"github.com/estudociclo/internal/db"
	"github.com/estudociclo/internal/service"
	"github.com/spf13/cobra"
)

func newSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage the subject catalog",
	}
	cmd.AddCommand(
		newSubjectAddCmd(),
		newSubjectListCmd(),
		newSubjectUpdateCmd(),
		newSubjectToggleAllCmd(),
		newSubjectDeleteCmd(),
	)
	return cmd
}

func newSubjectAddCmd() *cobra.Command {
	var (
		name      string
		url       string
		hours     float64
		frequency int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewSubjectService(db.DB)
			subject, err := svc.Create(userKey, service.SubjectInput{
				Name:        name,
				NotebookURL: url,
				TotalHours:  hours,
				Frequency:   frequency,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created subject %s (%s)\n", subject.Name, subject.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "subject name")
	cmd.Flags().StringVar(&url, "url", "", "notebook link")
	cmd.Flags().Float64Var(&hours, "hours", 1, "hours per session")
	cmd.Flags().IntVar(&frequency, "freq", 1, "repeats per cycle")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newSubjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subjects with their aggregates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewSubjectService(db.DB)
			subjects, err := svc.List(userKey)
			if err != nil {
				return err
			}
			for _, sub := range subjects {
				marker := " "
				if sub.IsActive {
					marker = "*"
				}
				fmt.Printf("%s %-36s %-20s %dx %.1fh  Q:%d/%d\n",
					marker, sub.ID, sub.Name, sub.Frequency, sub.TotalHours,
					sub.TotalCorrect, sub.TotalWrong)
			}
			return nil
		},
	}
}

func newSubjectUpdateCmd() *cobra.Command {
	var (
		name      string
		url       string
		hours     float64
		frequency int
		active    bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update subject fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 仅把显式提供的 flag 合入，未提供的保持原值
			var update service.SubjectUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("url") {
				update.NotebookURL = &url
			}
			if cmd.Flags().Changed("hours") {
				update.TotalHours = &hours
			}
			if cmd.Flags().Changed("freq") {
				update.Frequency = &frequency
			}
			if cmd.Flags().Changed("active") {
				update.IsActive = &active
			}

			svc := service.NewSubjectService(db.DB)
			subject, err := svc.Update(userKey, args[0], update)
			if err != nil {
				return err
			}
			fmt.Printf("updated subject %s\n", subject.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "subject name")
	cmd.Flags().StringVar(&url, "url", "", "notebook link")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours per session")
	cmd.Flags().IntVar(&frequency, "freq", 0, "repeats per cycle")
	cmd.Flags().BoolVar(&active, "active", false, "include in next cycle")
	return cmd
}

func newSubjectToggleAllCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "toggle-all",
		Short: "Activate or deactivate every subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return service.NewSubjectService(db.DB).ToggleAll(userKey, active)
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "target state")
	return cmd
}

func newSubjectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a subject from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.NewSubjectService(db.DB).Delete(userKey, args[0])
		},
	}
}
