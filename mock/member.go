package mock

import (
	"context"

	"github.com/fwojciec/rhinodoc"
)

var _ rhinodoc.MemberSource = (*MemberSource)(nil)

// MemberSource is a mock implementation of rhinodoc.MemberSource.
type MemberSource struct {
	MembersFn func(ctx context.Context) ([]*rhinodoc.Member, error)
}

func (s *MemberSource) Members(ctx context.Context) ([]*rhinodoc.Member, error) {
	return s.MembersFn(ctx)
}
