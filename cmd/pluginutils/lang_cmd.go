package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obentoo/pluginutils/internal/common/output"
)

var langCmd = &cobra.Command{
	Use:   "lang [key] [params...]",
	Short: "Show translated messages",
	Long: `Without arguments, list every message of the configured language.
With a key, print that message with {%0}, {%1}, ... replaced by params.

Examples:
  pluginutils lang
  pluginutils lang update.check.uptodate 1.2.0
  pluginutils lang --language jpn language.name`,
	RunE: runLang,
}

func init() {
	rootCmd.AddCommand(langCmd)
}

func runLang(cmd *cobra.Command, args []string) error {
	u, err := newUtils()
	if err != nil {
		return err
	}
	l, err := prepare(u)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		fmt.Fprintln(out, l.Translate(args[0], args[1:]...))
		return nil
	}

	fmt.Fprintln(out, output.Header.Sprintf("%s (%s)", l.Name(), l.Code()))
	for _, key := range l.Keys() {
		msg, _ := l.Get(key)
		fmt.Fprintf(out, "  %s = %s\n", output.FormatKey(key), msg)
	}
	return nil
}
