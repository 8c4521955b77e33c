package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stateless-solutions/stateless-go/libs/log"
)

const envPrefix = "STATELESS"

var (
	logLevel  = log.LogLevelInfo
	logFormat = log.LogFormatPlain

	logger = log.MustNewDefaultLogger(log.LogFormatPlain, log.LogLevelInfo)
)

// RootCmd is the root command for the verifying JSON-RPC client.
var RootCmd = &cobra.Command{
	Use:   "stateless",
	Short: "JSON-RPC client that verifies responses before trusting them",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}

		var err error
		logger, err = log.NewDefaultLogger(viper.GetString("log-format"), viper.GetString("log-level"))
		return err
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level (debug | info | error)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logFormat, "log format (plain | json)")

	RootCmd.AddCommand(
		CallCmd,
		ProxyCmd,
		VersionCmd,
	)
}

// bindFlags exposes every flag of the running command through viper, letting
// environment variables under the STATELESS_ prefix take part in
// configuration (dashes map to underscores, e.g. STATELESS_RPC_URL).
func bindFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return nil
}
