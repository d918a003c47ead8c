package out

import (
	"context"
	"io"

	"github.com/bnema/wpbackup/internal/domain"
)

// DatabaseDumper exports and imports a site database as SQL.
type DatabaseDumper interface {
	// Dump streams an SQL dump of the database to w.
	Dump(ctx context.Context, creds domain.DBCredentials, w io.Writer) error

	// Import replays an SQL dump read from r into the database.
	Import(ctx context.Context, creds domain.DBCredentials, r io.Reader) error
}

// SiteConfigReader resolves database credentials for a site installation.
type SiteConfigReader interface {
	ReadCredentials(ctx context.Context, sitePath string) (domain.DBCredentials, error)
}
