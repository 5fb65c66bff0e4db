package iconfolio

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/iconfolio/pkg/style"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// helpStyled is evaluated per render so redirected help stays plain
var helpStyled = func() bool {
	return style.Resolve(style.FormatAuto, os.Stdout) == style.FormatTerminal
}

// usageFuncs are the helpers msgs/usage-template.txt calls
func usageFuncs() template.FuncMap {
	bold := func(s string) string {
		if helpStyled() {
			return pterm.Bold.Sprint(s)
		}
		return s
	}
	return template.FuncMap{
		"bold":      bold,
		"upper":     strings.ToUpper,
		"boldUpper": func(s string) string { return bold(strings.ToUpper(s)) },
	}
}

func initTemplateFormatting() {
	cobra.AddTemplateFuncs(usageFuncs())
}
