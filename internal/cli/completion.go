package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modpublish/pkg/publish"
)

// completionCommand creates the completion command for generating shell completions.
// Besides subcommands, the scripts complete platform names for --target,
// release channels and unfeature modes.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for modpublish.

The script completes commands, flags, target platforms (--target), release
channels (--channel) and Modrinth unfeature modes (--unfeature-mode).

  bash:        source <(modpublish completion bash)
  zsh:         modpublish completion zsh > "${fpath[1]}/_modpublish"
  fish:        modpublish completion fish > ~/.config/fish/completions/modpublish.fish
  powershell:  modpublish completion powershell | Out-String | Invoke-Expression

CI images rarely need this; it is meant for running publishes by hand.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerPublishCompletions attaches value completions to the publish flags.
func registerPublishCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("target", completeTargets)
	_ = cmd.RegisterFlagCompletionFunc("channel", cobra.FixedCompletions(
		[]string{string(publish.Alpha), string(publish.Beta), string(publish.Release)},
		cobra.ShellCompDirectiveNoFileComp,
	))
	_ = cmd.RegisterFlagCompletionFunc("unfeature-mode", cobra.FixedCompletions(
		[]string{"none", "any", "subset", "intersection"},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// completeTargets completes the last element of a comma-separated platform
// list, leaving out platforms already named.
func completeTargets(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	seen := strings.Split(strings.ToLower(prefix), ",")

	var out []string
	for _, p := range publish.Platforms() {
		name := string(p)
		if strings.HasPrefix(name, strings.ToLower(last)) && !containsFold(seen, name) {
			out = append(out, prefix+name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
