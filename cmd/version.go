// =============================================================================
// Quiz Grade Reconciler - Version Command
// =============================================================================
//
// `reconciler version` reports which build of the reconciler is installed,
// so a grade report can be traced back to the binary that produced it.
//
//   $ reconciler version
//   reconciler 0.3.0 (built unknown, go1.24.0)
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Release metadata. Overridden by the release build:
//
//	go build -ldflags "-X github.com/ginjaninja78/quiz-grade-reconciler/cmd.Version=0.3.1 \
//	  -X github.com/ginjaninja78/quiz-grade-reconciler/cmd.BuildDate=2026-10-17"
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

func versionString() string {
	return fmt.Sprintf("reconciler %s (built %s, %s)", Version, BuildDate, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reconciler build",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
