package rhinodoc

import (
	"context"
	"time"
)

// BuildRecord describes one successful Persist of a corpus version.
type BuildRecord struct {
	ID           string    `json:"id"`
	Version      string    `json:"version"`
	Namespaces   int       `json:"namespaces"`
	TotalClasses int       `json:"total_classes"`
	CreatedAt    time.Time `json:"created_at"`
}

// BuildHistory is implemented by stores that keep a record of every build.
type BuildHistory interface {
	// FindBuilds returns the builds of version, newest first. An empty
	// version lists builds of every version.
	FindBuilds(ctx context.Context, version string) ([]*BuildRecord, error)
}
