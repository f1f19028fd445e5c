// Package doctorcmder provides the doctor command, a set of environment
// checks for diagnosing a broken linctl setup.
package doctorcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linctl/linctl/pkg/cliui"
	"github.com/linctl/linctl/pkg/credentials"
	"github.com/linctl/linctl/pkg/dotdir"
	"github.com/linctl/linctl/pkg/gitutil"
	"github.com/linctl/linctl/pkg/jsonpath"
	"github.com/linctl/linctl/pkg/session"
)

const doctorLongDesc string = `Check the local linctl setup.

Runs a series of checks against the configuration directory, stored
credentials, the Linear API, and the git installation, reporting each
result.

Examples:
  linctl doctor`

const doctorShortDesc string = "Check the local linctl setup"

const viewerQuery = `
	query {
		viewer {
			name
			organization { name }
		}
	}
`

func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: doctorShortDesc,
		Long:  doctorLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			profile, _ := cmd.Flags().GetString("profile")
			return runDoctor(cmd, configDir, profile)
		},
	}

	return cmd
}

func runDoctor(cmd *cobra.Command, configDir, profile string) error {
	fmt.Println()
	failures := 0

	// Config directory
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		failures++
		printCheck(false, "Config directory", err.Error())
	} else {
		printCheck(true, "Config directory", target)
	}

	// Credentials
	var haveKey bool
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		failures++
		printCheck(false, "API key", err.Error())
	} else {
		key, source, err := mgr.ResolveKey(profile)
		switch {
		case err != nil:
			failures++
			printCheck(false, "API key", err.Error())
		case key == "":
			failures++
			printCheck(false, "API key", "not set: run 'linctl auth login' or set "+credentials.EnvAPIKey)
		case source == "env":
			haveKey = true
			printCheck(true, "API key", "from "+credentials.EnvAPIKey)
		default:
			haveKey = true
			printCheck(true, "API key", "from "+mgr.GetTarget())
		}
	}

	// API reachability
	if haveKey {
		if err := checkAPI(cmd); err != nil {
			failures++
			printCheck(false, "Linear API", err.Error())
		}
	} else {
		fmt.Printf("  %s %s %s\n",
			cliui.DimStyle.Render("-"),
			cliui.KeyStyle.Render("Linear API"),
			cliui.DimStyle.Render("skipped: no API key"),
		)
	}

	// Git
	if gitutil.Installed() {
		printCheck(true, "git", "installed")
	} else {
		printCheck(false, "git", "not found on PATH: 'linctl git' commands will not work")
		failures++
	}

	fmt.Println()
	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Printf("  %s All checks passed.\n\n", cliui.SuccessMark)
	return nil
}

func checkAPI(cmd *cobra.Command) error {
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
		return err
	}

	name := jsonpath.String(result, "", "data", "viewer", "name")
	workspace := jsonpath.String(result, "", "data", "viewer", "organization", "name")
	printCheck(true, "Linear API", fmt.Sprintf("authenticated as %s (%s)", name, workspace))
	return nil
}

func printCheck(ok bool, name, detail string) {
	mark := cliui.SuccessMark
	if !ok {
		mark = cliui.FailMark
	}
	fmt.Printf("  %s %s %s\n", mark, cliui.KeyStyle.Render(name), cliui.DimStyle.Render(detail))
}
