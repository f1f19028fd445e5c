package main

import (
	"fmt"
	"os"

	linctlcmder "github.com/linctl/linctl/cmd/linctl"
	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/cliui"
)

func main() {
	cmd := linctlcmder.NewLinctlCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", cliui.FailMark, cliui.ErrStyle.Render(err.Error()))
		os.Exit(clierr.ExitCode(err))
	}
}
