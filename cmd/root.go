package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadscore",
	Short: "Filter, score and enrich business leads",
	Long: `Loads a table of prospective business leads, narrows it by industry, city
and revenue, collapses duplicate websites, scores each lead 0-100 and attaches
a contact email. Results are printed, exported as CSV/XLSX, or served as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if src, _ := cmd.Flags().GetString("source"); src != "" {
			applySourceOverride(&cfg.Source, src)
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("source", "", "lead source: file path (.csv, .xlsx, .db) or postgres:// URL (overrides config)")
	pf.String("preset", "", "YAML file with a saved filter view")
}

// applySourceOverride points the source at a file path or database URL and
// re-infers the driver from it.
func applySourceOverride(sc *config.SourceConfig, src string) {
	sc.Driver = ""
	if strings.HasPrefix(src, "postgres://") || strings.HasPrefix(src, "postgresql://") {
		sc.DatabaseURL = src
		sc.Path = ""
		return
	}
	sc.Path = src
	sc.DatabaseURL = ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
