package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/obentoo/pluginutils/internal/common/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the plugin configuration",
	Long: `Print the plugin config.yml after bundled defaults have been merged in.

Examples:
  pluginutils config
  pluginutils config get update.url
  pluginutils config set update.interval 6h`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: `Change one configuration value. The value is parsed as YAML, so true,
42 and 6h are stored as a boolean, a number and a string respectively.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	u, err := newUtils()
	if err != nil {
		return err
	}
	if _, err := prepare(u); err != nil {
		return err
	}

	data, err := yaml.Marshal(u.Config().All())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.Dim.Sprintf("# %s", u.Config().Path()))
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	u, err := newUtils()
	if err != nil {
		return err
	}
	if _, err := prepare(u); err != nil {
		return err
	}

	value := u.Config().Get(args[0], nil)
	if value == nil {
		return fmt.Errorf("key %s is not set", args[0])
	}
	if _, isMap := value.(map[string]interface{}); isMap {
		data, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	u, err := newUtils()
	if err != nil {
		return err
	}
	if _, err := prepare(u); err != nil {
		return err
	}

	var value interface{}
	if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	u.Config().Set(args[0], value)
	if err := u.Config().Save(); err != nil {
		return err
	}
	output.PrintSuccess("%s = %v", output.FormatKey(args[0]), value)
	return nil
}
