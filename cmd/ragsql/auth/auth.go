// Package authcmder provides the auth command for storing API credentials.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/credentials"
)

const authLongDesc string = `Store API credentials for LLM, embedding and vector store providers.

Keys live in credentials.toml in the .ragsql/ directory. A stored key wins
over the provider's environment variable when ragsql builds its completion,
embedding and qdrant clients.

Supported providers: openai, anthropic, qdrant

Examples:
  ragsql auth openai              Prompt for the OpenAI API key
  echo $KEY | ragsql auth qdrant  Read the key from stdin
  ragsql auth --list              Show stored credentials
  ragsql auth --remove openai     Forget the OpenAI key`

type authCommander struct {
	configDir string
	list      bool
	remove    string

	out io.Writer
	in  io.Reader
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: "Store API credentials for providers",
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.out = cmd.OutOrStdout()
			cmder.in = cmd.InOrStdin()

			switch {
			case cmder.list:
				return cmder.runList()
			case cmder.remove != "":
				return cmder.runRemove(cmder.remove)
			case len(args) == 0:
				return fmt.Errorf("provider argument required\n\nSupported providers: %s", supported())
			default:
				return cmder.runStore(args[0])
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.list, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&cmder.remove, "remove", "", "Remove stored credentials for a provider")

	return cmd
}

func supported() string {
	return strings.Join(credentials.SupportedProviders(), ", ")
}

func normalize(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !credentials.IsSupportedProvider(provider) {
		return "", fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s", provider, supported())
	}
	return provider, nil
}

func (c *authCommander) manager() (*credentials.Manager, error) {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	return mgr, nil
}

func (c *authCommander) runStore(provider string) error {
	provider, err := normalize(provider)
	if err != nil {
		return err
	}

	key, err := readAPIKey(c.out, c.in, provider)
	if err != nil {
		return err
	}
	if key = strings.TrimSpace(key); key == "" {
		return errors.New("API key cannot be empty")
	}

	mgr, err := c.manager()
	if err != nil {
		return err
	}
	if err := mgr.SetKey(provider, key); err != nil {
		return err
	}

	info, _ := credentials.ProviderInfo(provider)
	note := fmt.Sprintf("(used by %s, overrides %s)", strings.Join(info.Used, ", "), info.EnvVar)
	fmt.Fprintf(c.out, "\n  %s Stored %s credentials %s\n\n",
		cliui.SuccessMark, cliui.NameStyle.Render(provider), cliui.DimStyle.Render(note))
	return nil
}

func (c *authCommander) runList() error {
	mgr, err := c.manager()
	if err != nil {
		return err
	}
	creds, err := mgr.Load()
	if err != nil {
		return err
	}
	names, err := mgr.ListProviders()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintf(c.out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(c.out, "  Run 'ragsql auth <provider>' to add one (%s).\n\n", supported())
		return nil
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))
	for _, name := range names {
		line := fmt.Sprintf("  %s  %s", cliui.SuccessMark, cliui.NameStyle.Render(name))
		if env := credentials.EnvVarForProvider(name); env != "" {
			line += "  " + cliui.DimStyle.Render("→ "+env)
		}
		if at := creds.Providers[name].UpdatedAt; !at.IsZero() {
			line += "  " + cliui.DimStyle.Render("updated "+at.Format("2006-01-02"))
		}
		fmt.Fprintln(c.out, line)
	}
	fmt.Fprintln(c.out)

	return nil
}

func (c *authCommander) runRemove(provider string) error {
	provider, err := normalize(provider)
	if err != nil {
		return err
	}

	mgr, err := c.manager()
	if err != nil {
		return err
	}
	if err := mgr.RemoveKey(provider); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Removed %s credentials.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(provider))
	return nil
}

// readAPIKey prompts with hidden input when in is a terminal and otherwise
// takes the first line of in.
func readAPIKey(w io.Writer, in io.Reader, provider string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(w, "Enter API key for %s (%s): ", provider, credentials.EnvVarForProvider(provider))
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(key), nil
	}

	sc := bufio.NewScanner(in)
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
