package prompt

import (
	"fmt"
)

// ChooseDirectory lets the user keep the current directory or type one.
// validate rejects a typed path; the question is repeated until a valid
// one is given.
func (p *Prompter) ChooseDirectory(cwd string, validate func(string) error) (string, error) {
	fmt.Fprintln(p.out, "Select the operating directory")
	for {
		fmt.Fprintf(p.out, "  1. Use the current directory (%s)\n", cwd)
		fmt.Fprintln(p.out, "  2. Enter a path")
		choice, err := p.Line("Choice (1/2): ")
		if err != nil {
			return "", err
		}
		switch choice {
		case "1":
			return cwd, nil
		case "2":
			path, err := p.Line("Directory path: ")
			if err != nil {
				return "", err
			}
			if err := validate(path); err != nil {
				fmt.Fprintf(p.out, "Invalid directory: %v\n", err)
				continue
			}
			return path, nil
		default:
			fmt.Fprintln(p.out, "Please enter 1 or 2.")
		}
	}
}
