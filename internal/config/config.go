package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildpulse/internal/dirs"
)

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: any errors are returned for optional handling by caller.
func Init(root *cobra.Command) error {
	// Ensure base directories exist
	_ = dirs.EnsureAll()

	// Setup config search path
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		_ = dirs.Ensure(cfgDir)
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: BUILDPULSE_*
	viper.SetEnvPrefix("BUILDPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Bind root persistent flags to Viper keys
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("build_binary", root.PersistentFlags().Lookup("build-binary"))
	_ = viper.BindPFlag("jobs", root.PersistentFlags().Lookup("jobs"))
	_ = viper.BindPFlag("total_field", root.Flags().Lookup("total-field"))
	_ = viper.BindPFlag("dedup_cap", root.Flags().Lookup("dedup-cap"))

	// Read config file if present (ignore not found)
	_ = viper.ReadInConfig()

	return nil
}
