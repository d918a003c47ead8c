package out

import (
	"context"
	"io"

	"github.com/bnema/wpbackup/internal/domain"
)

// Archiver packs local files into a single compressed stream and back.
type Archiver interface {
	// Pack writes every entry into w.
	Pack(ctx context.Context, w io.Writer, entries []domain.ArchiveEntry) error

	// Unpack extracts the archive read from r below dest.
	Unpack(ctx context.Context, r io.Reader, dest string) error
}
