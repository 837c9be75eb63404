package main

import (
	"fmt"

	"github.com/fwojciec/rhinodoc"
)

// Run executes the class command.
func (c *ClassCmd) Run(deps *Dependencies) error {
	class, err := deps.Query.ClassDetails(deps.Ctx, c.Name, c.Namespace)
	if rhinodoc.ErrorCode(err) == rhinodoc.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "Class %q not found. Try 'rhinodoc search %s' first.\n", c.Name, c.Name)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}
	return writeJSON(deps.Stdout, class)
}
