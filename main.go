// =============================================================================
// Quiz Grade Reconciler - Main Entry Point
// =============================================================================
//
// USAGE:
//   reconciler config init   - Write a configuration file
//   reconciler roster import - Import the class roster workbook
//   reconciler grade         - Score a quiz export against the roster
//   reconciler runs          - List recorded grading runs
//   reconciler version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, scoring, reconciliation, report rendering, store
//   - pkg/       : Shared logging and file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/quiz-grade-reconciler/cmd"
)

func main() {
	cmd.Execute()
}
