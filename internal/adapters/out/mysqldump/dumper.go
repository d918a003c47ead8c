// Package mysqldump dumps and imports site databases with the MySQL client tools.
package mysqldump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/bnema/wpbackup/internal/domain"
)

const (
	defaultDumpBinary   = "mysqldump"
	defaultClientBinary = "mysql"
	maxStderr           = 4096
)

// Config selects the client binaries and extra dump flags.
type Config struct {
	DumpBinary   string
	ClientBinary string
	ExtraArgs    []string
}

// Dumper implements out.DatabaseDumper with mysqldump and mysql.
type Dumper struct {
	config Config
	log    zerowrap.Logger
}

// New creates a dumper. Empty binaries default to the tools on PATH.
func New(config Config, log zerowrap.Logger) *Dumper {
	if config.DumpBinary == "" {
		config.DumpBinary = defaultDumpBinary
	}
	if config.ClientBinary == "" {
		config.ClientBinary = defaultClientBinary
	}
	return &Dumper{config: config, log: log}
}

// Dump streams a consistent SQL dump of the database to w.
func (d *Dumper) Dump(ctx context.Context, creds domain.DBCredentials, w io.Writer) error {
	if creds.Empty() {
		return domain.ErrCredentialsMissing
	}

	args := append(dumpArgs(creds), d.config.ExtraArgs...)
	args = append(args, creds.Name)

	// #nosec G204 - binary comes from configuration, arguments are not shell-interpreted
	cmd := exec.CommandContext(ctx, d.config.DumpBinary, args...)
	cmd.Env = commandEnv(creds)
	cmd.Stdout = w
	stderr := &limitedBuffer{max: maxStderr}
	cmd.Stderr = stderr

	d.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "mysqldump").
		Str("db", creds.Name).
		Msg("dumping database")

	if err := cmd.Run(); err != nil {
		return commandError(domain.ErrDumpFailed, err, stderr.String())
	}
	return nil
}

// Import replays an SQL dump into the database.
func (d *Dumper) Import(ctx context.Context, creds domain.DBCredentials, r io.Reader) error {
	if creds.Empty() {
		return domain.ErrCredentialsMissing
	}

	args := append(connectionArgs(creds), creds.Name)

	// #nosec G204 - binary comes from configuration, arguments are not shell-interpreted
	cmd := exec.CommandContext(ctx, d.config.ClientBinary, args...)
	cmd.Env = commandEnv(creds)
	cmd.Stdin = r
	stderr := &limitedBuffer{max: maxStderr}
	cmd.Stderr = stderr

	d.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "mysqldump").
		Str("db", creds.Name).
		Msg("importing database")

	if err := cmd.Run(); err != nil {
		return commandError(domain.ErrImportFailed, err, stderr.String())
	}
	return nil
}

func connectionArgs(creds domain.DBCredentials) []string {
	args := []string{"--user=" + creds.User}
	if creds.Socket != "" {
		args = append(args, "--socket="+creds.Socket)
	} else {
		host := creds.Host
		if host == "" {
			host = "localhost"
		}
		args = append(args, "--host="+host)
		if creds.Port > 0 {
			args = append(args, "--port="+strconv.Itoa(creds.Port))
		}
	}
	return args
}

func dumpArgs(creds domain.DBCredentials) []string {
	return append(connectionArgs(creds),
		"--single-transaction",
		"--quick",
		"--routines",
		"--triggers",
		"--no-tablespaces",
		"--default-character-set=utf8mb4",
	)
}

// commandEnv passes the password through MYSQL_PWD so it never shows up
// in the process list.
func commandEnv(creds domain.DBCredentials) []string {
	env := os.Environ()
	filtered := env[:0]
	for _, kv := range env {
		if !strings.HasPrefix(kv, "MYSQL_PWD=") {
			filtered = append(filtered, kv)
		}
	}
	if creds.Password != "" {
		filtered = append(filtered, "MYSQL_PWD="+creds.Password)
	}
	return filtered
}

func commandError(sentinel, err error, stderr string) error {
	msg := strings.TrimSpace(stderr)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: exit code %d: %s", sentinel, exitErr.ExitCode(), msg)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// limitedBuffer keeps the first max bytes written to it.
type limitedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
