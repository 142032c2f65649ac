package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/validation"
	"github.com/ginjaninja78/quiz-grade-reconciler/pkg/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initForce          bool
	initCourse         string
	initCommentCode    string
	initStatementCode  string
	initStatementLabel string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with defaults",
	Long: `Write a configuration file with every default filled in. Course settings
given as flags are stored too. An existing file is kept unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if utils.FileExists(cfgFile) && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}

		cfg := config.Default()
		cfg.CourseNumber = initCourse
		cfg.CommentCode = initCommentCode
		cfg.StatementCode = initStatementCode
		if initStatementLabel != "" {
			cfg.StatementLabel = initStatementLabel
		}

		for _, e := range validation.ValidateSession(cfg.Session()).Errors {
			utils.Log.Warn(e.Error())
		}

		if err := config.SaveMainConfig(cfgFile, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", cfgFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	configInitCmd.Flags().StringVar(&initCourse, "course", "", "Course number used to filter the roster")
	configInitCmd.Flags().StringVar(&initCommentCode, "comment-code", "", "Question code of the comment column")
	configInitCmd.Flags().StringVar(&initStatementCode, "statement-code", "", "Question code of the statement column")
	configInitCmd.Flags().StringVar(&initStatementLabel, "statement-label", "", "Report title of the statement column (e.g. Documentation)")
}
