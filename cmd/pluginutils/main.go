package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obentoo/pluginutils/internal/common/logger"
	"github.com/obentoo/pluginutils/internal/common/output"
	"github.com/obentoo/pluginutils/internal/common/version"
	"github.com/obentoo/pluginutils/internal/pluginutils"
	"github.com/obentoo/pluginutils/internal/task"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	logFile bool
)

// settings is filled by the root PersistentPreRunE
var settings *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "pluginutils",
	Short: "Plugin start-up utilities",
	Long: `Utilities a server plugin runs on start-up: saving and merging the bundled
configuration, loading translated messages and checking for a newer release.

Settings can also be given as PLUGINUTILS_* environment variables, for example
PLUGINUTILS_DATA_DIR or PLUGINUTILS_UPDATE_URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if logFile {
			if err := logger.Default().EnableFileLogging(); err != nil {
				return err
			}
		}

		s, err := newSettings(cmd.Flags())
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Default().Close()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write the log to the state directory")

	rootCmd.PersistentFlags().String(KeyDataDir, "", "Plugin data folder (default $XDG_DATA_HOME/pluginutils)")
	rootCmd.PersistentFlags().String(KeyServerLanguage, pluginutils.DefaultLanguage, "Language of the host server")
	rootCmd.PersistentFlags().String(KeyFallbackLanguage, pluginutils.DefaultLanguage, "Language used when the configured one has no catalog")
	rootCmd.PersistentFlags().String(KeyUpdateURL, "", "Latest release endpoint (default from config)")
	rootCmd.PersistentFlags().String(KeyUserAgent, "", "User agent sent with update checks (default pluginutils/<version>)")
	rootCmd.PersistentFlags().Int(KeyWorkers, task.DefaultWorkers, "Background worker count")
}

// newUtils builds the plugin utilities from the resolved settings
func newUtils(opts ...pluginutils.Option) (*pluginutils.Utils, error) {
	base := []pluginutils.Option{
		pluginutils.WithLogger(logger.Default()),
		pluginutils.WithServerLanguage(settings.GetString(KeyServerLanguage)),
		pluginutils.WithVersionSource(version.Build{}),
		pluginutils.WithUserAgent(userAgent{override: settings.GetString(KeyUserAgent)}),
		pluginutils.WithPool(task.NewPool(settings.GetInt(KeyWorkers), task.WithLogger(logger.Default()))),
	}
	return pluginutils.New(settings.GetString(KeyDataDir), append(base, opts...)...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, output.FormatLevel("ERROR"), err)
		os.Exit(1)
	}
}
