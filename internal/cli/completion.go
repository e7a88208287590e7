package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/viankakrisna/create-react-app-extra/internal/config"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cra-watch.

To load completions:

Bash:
  $ source <(cra-watch completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cra-watch completion bash > /etc/bash_completion.d/cra-watch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cra-watch completion zsh > "${fpath[1]}/_cra-watch"

Fish:
  $ cra-watch completion fish > ~/.config/fish/completions/cra-watch.fish

PowerShell:
  PS> cra-watch completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cra-watch completion powershell > cra-watch.ps1
  # and source this file from your PowerShell profile.
`,
		// Override parent PersistentPreRunE: completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// registerFlagCompletions offers the accepted values of enum-like flags on
// root and its subcommands.
func registerFlagCompletions(root *cobra.Command) {
	noFiles := cobra.ShellCompDirectiveNoFileComp

	_ = root.RegisterFlagCompletionFunc("log-level", cobra.FixedCompletions([]string{
		config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError,
	}, noFiles))
	_ = root.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions([]string{
		config.LogFormatText, config.LogFormatJSON,
	}, noFiles))
	_ = root.RegisterFlagCompletionFunc("app-dir", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})

	modes := cobra.FixedCompletions([]string{
		config.ModeDevelopment, config.ModeProduction, config.ModeTest,
	}, noFiles)
	formats := cobra.FixedCompletions(sizesRegistry("", lipgloss.DefaultRenderer()).Formats(), noFiles)

	for _, c := range append([]*cobra.Command{root}, root.Commands()...) {
		if c.LocalFlags().Lookup("mode") != nil {
			_ = c.RegisterFlagCompletionFunc("mode", modes)
		}

		if c.LocalFlags().Lookup("format") != nil {
			_ = c.RegisterFlagCompletionFunc("format", formats)
		}
	}
}
