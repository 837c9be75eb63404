package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/rhinodoc"
)

// Run executes the add-example command.
func (c *AddExampleCmd) Run(deps *Dependencies) error {
	code, err := c.readCode(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	examples, err := deps.Examples.FindExamples(deps.Ctx, c.Class)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	examples = append(examples, rhinodoc.Example{
		Title:       c.Title,
		Description: c.Description,
		Language:    c.Language,
		Code:        code,
	})

	if err := deps.Examples.SaveExamples(deps.Ctx, c.Class, examples); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added example %q to %s (%d total)\n", c.Title, c.Class, len(examples))
	return nil
}

func (c *AddExampleCmd) readCode(stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if c.File == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return "", err
	}

	code := strings.TrimSpace(string(data))
	if code == "" {
		return "", rhinodoc.Errorf(rhinodoc.EINVALID, "example code is empty")
	}
	return code, nil
}
