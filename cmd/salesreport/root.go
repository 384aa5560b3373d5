package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Flags override config if set
	flagCSVFile    string
	flagSchemaFile string

	cfg cliConfig
)

// cliConfig mirrors the server's dataset settings so both binaries read
// the same file layout. Precedence: flags > env > config file > defaults.
type cliConfig struct {
	CSVFile    string `mapstructure:"csv_file" yaml:"csv_file"`
	SchemaFile string `mapstructure:"schema_file" yaml:"schema_file"`
	TopGroups  int    `mapstructure:"top_groups" yaml:"top_groups"`
}

var rootCmd = &cobra.Command{
	Use:   "salesreport",
	Short: "Inspect a sales dataset from the command line",
	Long: `salesreport loads the dashboard's CSV dataset, checks its schema
bindings, and prints markdown summaries: column profiles, headline
figures, ranked groups, and correlations.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.salesreport/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagCSVFile, "csv", "", "dataset CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSchemaFile, "schema", "", "schema bindings YAML (overrides config)")
}

func loadConfig() {
	v := viper.New()
	v.SetEnvPrefix("SALESREPORT")
	v.AutomaticEnv()

	// Defaults match the web server's dataset config
	v.SetDefault("csv_file", "data/cleaned_data.csv")
	v.SetDefault("schema_file", "")
	v.SetDefault("top_groups", 10)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".salesreport"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}
	// optional read
	_ = v.ReadInConfig()

	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}

	f := rootCmd.PersistentFlags()
	if f.Changed("csv") && flagCSVFile != "" {
		cfg.CSVFile = flagCSVFile
	}
	if f.Changed("schema") && flagSchemaFile != "" {
		cfg.SchemaFile = flagSchemaFile
	}
}
