package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/roster"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/validation"
	"github.com/ginjaninja78/quiz-grade-reconciler/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rosterCourse string

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Import and inspect the class roster",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <roster.xlsx>",
	Short: "Import a roster workbook for the configured course",
	Long: `Read the roster workbook, keep the rows of the configured course number,
and replace the stored roster of that course. Names and emails are stored
normalized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		courseOverride(cfg, rosterCourse)
		session := cfg.Session()

		entries, err := roster.LoadWorkbook(args[0], session)
		if err != nil {
			return err
		}

		result := validation.ValidateRoster(entries)
		for _, e := range result.Errors {
			utils.Log.Warn(e.Error())
		}
		if !result.IsValid {
			return fmt.Errorf("roster %s has %d error(s) for course %s", args[0], result.ErrorCount, session.CourseNumber)
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ReplaceRoster(context.Background(), session.CourseNumber, entries); err != nil {
			return fmt.Errorf("failed to store roster: %w", err)
		}

		utils.Log.WithFields(logrus.Fields{
			"course":   session.CourseNumber,
			"entries":  len(entries),
			"warnings": result.WarningCount,
		}).Info("roster imported")
		return nil
	},
}

var rosterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the stored roster of the configured course",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		courseOverride(cfg, rosterCourse)

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.LoadRoster(context.Background(), cfg.CourseNumber)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No roster stored for course %q\n", cfg.CourseNumber)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEMAIL\tSECTION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Email, e.Section)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterImportCmd, rosterShowCmd)
	rosterCmd.PersistentFlags().StringVar(&rosterCourse, "course", "", "Course number (overrides course_number)")
}
