package main

import "fmt"

// Run executes the namespaces command.
func (c *NamespacesCmd) Run(deps *Dependencies) error {
	namespaces := deps.Query.Namespaces()
	if len(namespaces) == 0 {
		fmt.Fprintln(deps.Stdout, "No namespaces found. Use 'rhinodoc build' to create a corpus.")
		return nil
	}

	for _, ns := range namespaces {
		fmt.Fprintln(deps.Stdout, ns)
	}

	return nil
}
