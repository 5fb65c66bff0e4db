package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/iconfolio/cmd/iconfolio"
	"github.com/arthur-debert/iconfolio/pkg/prompt"
	"github.com/arthur-debert/iconfolio/pkg/style"
)

func main() {
	rootCmd := iconfolio.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Started without arguments usually means a double-clicked console
		// window, which would close before the message can be read.
		if len(os.Args) == 1 {
			_ = prompt.New(os.Stdin, os.Stderr).WaitKey(iconfolio.MsgPressSpace)
		}
		os.Exit(1)
	}
}
