// Package authcmder provides the auth command for storing the Linear
// API key.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/credentials"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/session"
)

const authLongDesc string = `Manage Linear API credentials.

Credentials are stored per profile in credentials.toml in the
.linctl/ directory. The LINEAR_API_KEY environment variable always
takes precedence over stored keys.

Create a personal API key at linear.app/settings/api.

Examples:
  linctl auth login              Prompt for an API key and verify it
  linctl auth status             Show the active key and account
  linctl auth logout             Remove the stored key
  echo $KEY | linctl auth login  Pipe the API key from stdin`

const authShortDesc string = "Manage Linear API credentials"

const viewerQuery = `
	query {
		viewer {
			id
			name
			email
			organization { name urlKey }
		}
	}
`

func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store and verify a Linear API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			profile, _ := cmd.Flags().GetString("profile")
			if profile == "" {
				profile = credentials.DefaultProfile
			}

			apiKey, err := readAPIKey()
			if err != nil {
				return err
			}
			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				return errors.New("API key cannot be empty")
			}

			client, err := linear.NewClient(linear.ClientConfig{APIKey: apiKey})
			if err != nil {
				return err
			}
			result, err := client.Query(cmd.Context(), viewerQuery, nil)
			if err != nil {
				return fmt.Errorf("verifying API key: %w", err)
			}
			name := jsonpath.String(result, "", "data", "viewer", "name")
			workspace := jsonpath.String(result, "", "data", "viewer", "organization", "name")

			mgr, err := credentials.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("loading credentials: %w", err)
			}
			if err := mgr.SetKey(profile, apiKey); err != nil {
				return err
			}

			fmt.Printf("\n  %s Logged in as %s %s\n\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(name),
				cliui.DimStyle.Render("("+workspace+")"),
			)
			if os.Getenv(credentials.EnvAPIKey) != "" {
				fmt.Printf("  %s %s is set and will override the stored key.\n\n",
					cliui.WarnStyle.Render("!"), credentials.EnvAPIKey)
			}
			return nil
		},
	}

	return cmd
}

func newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			profile, _ := cmd.Flags().GetString("profile")
			if profile == "" {
				profile = credentials.DefaultProfile
			}

			mgr, err := credentials.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("loading credentials: %w", err)
			}

			key, err := mgr.GetKey(profile)
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Printf("\n  %s No stored credentials for profile %q.\n\n",
					cliui.DimStyle.Render("●"), profile)
				return nil
			}

			if err := mgr.RemoveKey(profile); err != nil {
				return err
			}

			fmt.Printf("\n  %s Removed credentials for profile %s.\n\n",
				cliui.SuccessMark, cliui.NameStyle.Render(profile))
			return nil
		},
	}

	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials and account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			profile, _ := cmd.Flags().GetString("profile")

			mgr, err := credentials.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("loading credentials: %w", err)
			}

			key, source, err := mgr.ResolveKey(profile)
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Printf("\n  %s Not logged in.\n", cliui.FailMark)
				fmt.Printf("  Run 'linctl auth login' or set %s.\n\n", credentials.EnvAPIKey)
				return nil
			}

			fmt.Printf("\n  %s %s %s\n",
				cliui.SuccessMark,
				cliui.KeyStyle.Render("API key:"),
				cliui.ValueStyle.Render(maskKey(key)),
			)
			switch source {
			case "env":
				fmt.Printf("    %s\n", cliui.DimStyle.Render("source: "+credentials.EnvAPIKey+" environment variable"))
			default:
				fmt.Printf("    %s\n", cliui.DimStyle.Render("source: "+mgr.GetTarget()))
			}

			sess, err := session.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			client, err := sess.Client()
			if err != nil {
				return err
			}

			result, err := client.Query(cmd.Context(), viewerQuery, nil)
			if err != nil {
				fmt.Printf("\n  %s Key verification failed: %v\n\n", cliui.FailMark, err)
				return nil
			}

			fmt.Printf("\n  %s %s\n",
				cliui.KeyStyle.Render("Account:"),
				cliui.ValueStyle.Render(jsonpath.String(result, "-", "data", "viewer", "name")))
			fmt.Printf("  %s %s\n",
				cliui.KeyStyle.Render("Email:"),
				cliui.ValueStyle.Render(jsonpath.String(result, "-", "data", "viewer", "email")))
			fmt.Printf("  %s %s\n\n",
				cliui.KeyStyle.Render("Workspace:"),
				cliui.ValueStyle.Render(jsonpath.String(result, "-", "data", "viewer", "organization", "name")))
			return nil
		},
	}

	return cmd
}

// maskKey shows the first and last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

// readAPIKey reads an API key from stdin. If stdin is a pipe, it reads
// the first line. Otherwise, it prompts interactively with hidden input.
func readAPIKey() (string, error) {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("checking stdin: %w", err)
	}

	// Piped input
	if (fi.Mode() & os.ModeCharDevice) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			return scanner.Text(), nil
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return "", errors.New("no input received on stdin")
	}

	// Interactive terminal
	fmt.Print("Enter Linear API key: ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}

	return string(keyBytes), nil
}
