package main

import (
	"github.com/spf13/cobra"

	"github.com/obentoo/pluginutils/internal/common/output"
	"github.com/obentoo/pluginutils/internal/lang"
	"github.com/obentoo/pluginutils/internal/pluginutils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the plugin data folder",
	Long: `Save the bundled config.yml when missing, add new bundled keys to an
existing one and extract the language catalogs.

Examples:
  pluginutils init
  pluginutils init --language jpn --data-dir ./plugins/MyPlugin`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	u, err := newUtils()
	if err != nil {
		return err
	}
	l, err := prepare(u)
	if err != nil {
		return err
	}
	output.PrintSuccess("Data folder ready: %s (%s)", u.DataDir(), l.Name())
	return nil
}

// prepare runs the start-up sequence every command shares
func prepare(u *pluginutils.Utils) (*lang.Language, error) {
	if err := u.InitConfig(); err != nil {
		return nil, err
	}
	if _, err := u.UpdateConfig(); err != nil {
		return nil, err
	}
	return u.InitLanguage(settings.GetString(KeyFallbackLanguage))
}
