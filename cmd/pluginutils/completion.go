package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for pluginutils.

To load completions:

Bash:
  $ source <(pluginutils completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ pluginutils completion bash > /etc/bash_completion.d/pluginutils
  # macOS:
  $ pluginutils completion bash > $(brew --prefix)/etc/bash_completion.d/pluginutils

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ pluginutils completion zsh > "${fpath[1]}/_pluginutils"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pluginutils completion fish | source
  # To load completions for each session, execute once:
  $ pluginutils completion fish > ~/.config/fish/completions/pluginutils.fish

PowerShell:
  PS> pluginutils completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> pluginutils completion powershell > pluginutils.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
