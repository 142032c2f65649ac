package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	runsCourse string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded grading runs of the configured course",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		courseOverride(cfg, runsCourse)

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), cfg.CourseNumber, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Printf("No runs recorded for course %q\n", cfg.CourseNumber)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tASSIGNMENT\tMATCHED\tUNMATCHED\tSOURCE")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.AssignmentName, r.Matched, r.Unmatched, r.SourceFile)
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "List the unmatched records of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		unmatched, err := db.UnmatchedForRun(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(unmatched) == 0 {
			fmt.Println("No unmatched records")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ROW\tNAME\tEMAIL")
		for _, u := range unmatched {
			fmt.Fprintf(w, "%d\t%s\t%s\n", u.RowNumber, u.Name, u.Email)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.Flags().StringVar(&runsCourse, "course", "", "Course number (overrides course_number)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}
