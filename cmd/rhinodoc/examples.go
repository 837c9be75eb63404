package main

import (
	"fmt"

	"github.com/fwojciec/rhinodoc"
)

// Run executes the examples command.
func (c *ExamplesCmd) Run(deps *Dependencies) error {
	examples, err := deps.Query.Examples(deps.Ctx, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	if len(examples) == 0 {
		fmt.Fprintf(deps.Stdout, "No examples for %s. Use 'rhinodoc add-example' to add one.\n", c.Name)
		return nil
	}

	return writeJSON(deps.Stdout, examples)
}
