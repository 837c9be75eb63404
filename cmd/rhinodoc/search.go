package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/rhinodoc"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	hits, err := deps.Query.Search(deps.Ctx, c.Query, c.Namespace)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}
	return writeJSON(deps.Stdout, hits)
}

// writeJSON prints v as an indented JSON document.
func writeJSON(w io.Writer, v any) error {
	data, err := rhinodoc.MarshalDocument(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
