// =============================================================================
// Quiz Grade Reconciler - Grade Command
// =============================================================================
//
// This file defines the 'grade' command, which runs one data file through
// the whole pipeline.
//
// COMMAND USAGE:
//   reconciler grade <file.csv> [flags]
//
// FLAGS:
//   --course   : Course number (overrides course_number)
//   --csv      : Also write the report as CSV to this path ("-" for stdout)
//   --dry-run  : Reconcile and print the summary without writing anything
//
// PROCESSING PIPELINE:
//   1. Load and validate the configuration
//   2. Load the stored roster of the course into a session
//   3. Parse, pair, score, and reconcile the data file
//   4. Write the per-section workbook (and the CSV table if asked)
//   5. Write the unmatched side list and copy the data file
//   6. Record the run in the store
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/reconcile"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/report"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/validation"
	"github.com/ginjaninja78/quiz-grade-reconciler/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	gradeCourse string
	gradeCSV    string
	dryRun      bool
)

// =============================================================================
// GRADE COMMAND DEFINITION
// =============================================================================

var gradeCmd = &cobra.Command{
	Use:   "grade <file.csv>",
	Short: "Score a quiz export and join it to the roster",
	Long: `The grade command reads a quiz CSV export, scores every answer, and joins
each record to the stored roster to recover its section.

On success:
  - The report workbook is written to <output_dir>/<assignment>/output.xlsx
    with one sheet per section
  - Records that matched no roster entry are listed in unmatched.csv
  - The run is recorded in the store (see 'reconciler runs')

On error nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrade(args[0])
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)

	gradeCmd.Flags().StringVar(&gradeCourse, "course", "", "Course number (overrides course_number)")
	gradeCmd.Flags().StringVar(&gradeCSV, "csv", "", `Also write the report as CSV to this path ("-" for stdout)`)
	gradeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile without writing output or recording the run")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGrade(dataPath string) error {
	ctx := context.Background()

	// =========================================================================
	// STEP 1: Configuration
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	courseOverride(cfg, gradeCourse)
	sessionCfg := cfg.Session()

	check := validation.ValidateSession(sessionCfg)
	for _, e := range check.Errors {
		if e.Severity == validation.SeverityError {
			utils.Log.Error(e.Error())
		} else {
			utils.Log.Debug(e.Error())
		}
	}
	if !check.IsValid {
		return fmt.Errorf("configuration has %d error(s)", check.ErrorCount)
	}

	// =========================================================================
	// STEP 2: Roster
	// =========================================================================

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.LoadRoster(ctx, sessionCfg.CourseNumber)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	session := reconcile.NewSession(sessionCfg, utils.Log)
	session.SetRoster(entries)

	// =========================================================================
	// STEP 3: Reconcile
	// =========================================================================

	result, err := session.Load(dataPath)
	if err != nil {
		return err
	}
	rep := result.Report

	printSummary(os.Stdout, result)

	if dryRun {
		utils.Log.Info("dry run, nothing written")
		return nil
	}

	// =========================================================================
	// STEP 4: Report output
	// =========================================================================

	fm := utils.NewFileManager(cfg.OutputDir, cfg.ReportFileFormat)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	reportPath := fm.ReportPath(rep.AssignmentName, sessionCfg.CourseNumber)
	if err := report.WriteWorkbook(reportPath, rep); err != nil {
		return err
	}
	utils.Log.WithField("path", reportPath).Info("report workbook written")

	if gradeCSV != "" {
		if err := writeCSVReport(gradeCSV, rep); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 5: Side files
	// =========================================================================

	if len(rep.Unmatched) > 0 {
		unmatchedPath := fm.UnmatchedPath(reportPath)
		if err := writeFile(unmatchedPath, func(w io.Writer) error {
			return report.WriteUnmatchedCSV(w, rep)
		}); err != nil {
			return err
		}
		utils.Log.WithFields(logrus.Fields{
			"path":  unmatchedPath,
			"count": len(rep.Unmatched),
		}).Warn("some records matched no roster entry")
	}

	if _, err := fm.CopySourceFile(dataPath, reportPath); err != nil {
		utils.Log.WithError(err).Warn("data file not copied")
	}

	// =========================================================================
	// STEP 6: Run history
	// =========================================================================

	runID, err := db.RecordRun(ctx, sessionCfg.CourseNumber, dataPath, rep)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	utils.Log.WithField("run", runID).Debug("run recorded")

	return nil
}

// printSummary prints the console summary of one reconciliation.
func printSummary(w io.Writer, result *reconcile.Result) {
	rep := result.Report
	fmt.Fprintf(w, "Assignment:  %s\n", rep.AssignmentName)
	fmt.Fprintf(w, "Questions:   %d\n", rep.NumQuestions)
	fmt.Fprintf(w, "Pairs read:  %d\n", result.Stats.PairsRead)
	fmt.Fprintf(w, "Matched:     %d (email %d, name %d)\n",
		len(rep.Records), result.Stats.MatchedEmail, result.Stats.MatchedName)
	fmt.Fprintf(w, "Unmatched:   %d\n", len(rep.Unmatched))
	for _, section := range rep.Sections() {
		fmt.Fprintf(w, "  %-10s %d\n", sectionLabel(section), len(rep.RecordsInSection(section)))
	}
	if result.Unpaired != nil {
		fmt.Fprintf(w, "Warning:     %s\n", result.Unpaired.Error())
	}
	fmt.Fprintf(w, "Time:        %s\n", result.ProcessingTime)
}

func sectionLabel(section string) string {
	if section == "" {
		return "(none)"
	}
	return section
}

func writeCSVReport(path string, rep *types.FinalReport) error {
	if path == "-" {
		return report.WriteCSV(os.Stdout, rep)
	}
	if err := writeFile(path, func(w io.Writer) error {
		return report.WriteCSV(w, rep)
	}); err != nil {
		return err
	}
	utils.Log.WithField("path", path).Info("report CSV written")
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
