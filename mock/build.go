package mock

import (
	"context"

	"github.com/fwojciec/rhinodoc"
)

var _ rhinodoc.BuildHistory = (*BuildHistory)(nil)

// BuildHistory is a mock implementation of rhinodoc.BuildHistory.
type BuildHistory struct {
	FindBuildsFn func(ctx context.Context, version string) ([]*rhinodoc.BuildRecord, error)
}

func (s *BuildHistory) FindBuilds(ctx context.Context, version string) ([]*rhinodoc.BuildRecord, error) {
	return s.FindBuildsFn(ctx, version)
}
