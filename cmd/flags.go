package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// registerLoggingFlags declares the shared logging flags on a flag set and
// binds them into viper so MESHFOLIO_LOG_LEVEL and config files work too.
func registerLoggingFlags(flags *pflag.FlagSet) {
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	viper.BindPFlag("log-level", flags.Lookup("log-level"))
	viper.BindPFlag("log-format", flags.Lookup("log-format"))
}
