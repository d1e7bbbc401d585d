package storage

import (
	"context"
	"fmt"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver Driver
	Dir    string // filesystem root
	S3     S3Config
}

// Open constructs the Store named by opts.Driver. The SQLite driver lives
// in the persistence package and is not handled here.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(opts.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
