// Package blob selects the object store that uploaded import files live in.
package blob

import (
	"context"
	"fmt"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/fs"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/memory"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/s3"
)

type (
	Store  = core.Store
	Info   = core.Info
	Driver = core.Driver
)

var (
	ErrNotFound = core.ErrNotFound
	ErrExists   = core.ErrExists
)

type Config struct {
	Driver string
	FSRoot string
	S3     s3.Config
}

// Open builds the store named by cfg.Driver (fs when empty).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(core.DriverFilesystem)
	}
	switch core.Driver(driver) {
	case core.DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case core.DriverS3:
		return s3.New(ctx, cfg.S3)
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
