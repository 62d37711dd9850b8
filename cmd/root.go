package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Investorold/arcshield-sub000/internal/logging"
)

var debugMode bool

var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:   "arcshield",
	Short: "arcshield - pattern-based security rule engine",
	Long: "arcshield scans source trees for vulnerability signatures using a\n" +
		"declarative, language and framework aware rule engine, classifies each\n" +
		"finding's code provenance, and computes a deterministic triage priority.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(debugMode)
		if err != nil {
			return err
		}
		logger = log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
