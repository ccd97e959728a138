package main

import (
	"os"

	"github.com/spf13/cobra"

	"voicetracker-backend/internal/logger"
)

func RootCmd() *cobra.Command {
	var (
		level   string
		logJSON bool
	)
	root := &cobra.Command{
		Use:           "voicectl",
		Short:         "Parse Turkish voice transcripts into reminders and expenses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := logger.DefaultConfig()
			cfg.Output = os.Stderr
			cfg.Level = logger.ParseLevel(level)
			cfg.JSON = logJSON
			log := logger.NewLogger(cfg)
			logger.SetDefault(log)
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "warn", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")

	root.AddCommand(
		ReminderCmd(),
		ExpenseCmd(),
		BatchCmd(),
	)
	return root
}
