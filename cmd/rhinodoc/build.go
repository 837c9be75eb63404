package main

import (
	"fmt"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/corpus"
	"github.com/fwojciec/rhinodoc/etree"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	b := &corpus.Builder{
		Root:    c.Root,
		BaseURL: c.BaseURL,
		Logger:  deps.Logger,
	}

	built, report, err := b.BuildFrom(deps.Ctx, etree.NewSource(c.XML))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	if err := deps.Store.Persist(deps.Ctx, built, deps.Version); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rhinodoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built RhinoCommon %s: %d namespaces, %d classes\n",
		deps.Version, len(built), report.Types)
	fmt.Fprintf(deps.Stdout, "  %d methods, %d properties, %d fields\n",
		report.Methods, report.Properties, report.Fields)
	fmt.Fprintf(deps.Stdout, "  %d orphaned members, %d duplicate types, %d rejected types\n",
		report.OrphanCount(), len(report.Collisions), len(report.Rejected))

	return nil
}
