package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rhinodoc"
)

// Run executes the builds command.
func (c *BuildsCmd) Run(deps *Dependencies) error {
	if deps.Builds == nil {
		err := rhinodoc.Errorf(rhinodoc.EINVALID, "this store does not record builds; use --store sqlite or postgres")
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	version := deps.Version
	if c.All {
		version = ""
	}

	builds, err := deps.Builds.FindBuilds(deps.Ctx, version)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	if len(builds) == 0 {
		fmt.Fprintln(deps.Stdout, "No builds found. Use 'rhinodoc build' to create one.")
		return nil
	}

	for _, b := range builds {
		fmt.Fprintf(deps.Stdout, "%s  v%s  %d namespaces  %d classes  %s\n",
			b.ID, b.Version, b.Namespaces, b.TotalClasses, b.CreatedAt.Format(time.RFC3339))
	}

	return nil
}
