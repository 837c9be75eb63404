package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/mcp"
)

// Run executes the serve command. It returns when stdin closes or the
// process is interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := mcp.NewServer(deps.Query, deps.Logger)
	err := srv.Serve(deps.Ctx, deps.Stdin, deps.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}
	return nil
}
