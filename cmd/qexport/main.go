package main

import (
	"github.com/loykin/qexport"
	"github.com/loykin/qexport/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "qexport",
	Short: "Export Qualtrics survey responses to CSV",
	Long: "qexport authenticates against the Qualtrics v3 API, starts an asynchronous\n" +
		"response export, polls it to completion and writes the resulting CSV.\n" +
		"Run without arguments for an interactive survey picker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")

	// Environment variables support: QEXPORT_CONFIG, QEXPORT_LOG_LEVEL, ...
	v.SetEnvPrefix("QEXPORT")
	v.AutomaticEnv()

	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	rootCmd.PersistentFlags().String("log-level", v.GetString("log_level"), "log level (error, warn, info, debug)")
	rootCmd.PersistentFlags().String("log-format", v.GetString("log_format"), "log format (text, json)")

	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(surveysCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}

// loadConfig loads and validates configuration, then installs the logger the
// config (and CLI overrides) ask for.
func loadConfig() (*qexport.Config, error) {
	v := viper.GetViper()
	cfg, err := qexport.LoadConfig(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.Logging.Level = s
	}
	if s := v.GetString("log_format"); s != "" {
		cfg.Logging.Format = s
	}
	common.Configure(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.MaskSensitive != nil {
		common.EnableMasking(*cfg.Logging.MaskSensitive)
	}
	return cfg, nil
}
