// Package wpconfig reads database credentials from a WordPress wp-config.php.
package wpconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/bnema/wpbackup/internal/domain"
)

const fileName = "wp-config.php"

// defineRegex matches define( 'DB_NAME', 'value' ) with either quote style.
var defineRegex = regexp.MustCompile(`define\s*\(\s*['"](DB_NAME|DB_USER|DB_PASSWORD|DB_HOST)['"]\s*,\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\s*\)`)

// lineCommentRegex strips // and # comments that would hide a define.
var lineCommentRegex = regexp.MustCompile(`(?m)^\s*(//|#).*$`)

var blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

// Reader implements out.SiteConfigReader.
type Reader struct {
	log zerowrap.Logger
}

// NewReader creates a wp-config reader.
func NewReader(log zerowrap.Logger) *Reader {
	return &Reader{log: log}
}

// ReadCredentials parses wp-config.php in sitePath, or in its parent
// directory as WordPress itself allows.
func (r *Reader) ReadCredentials(_ context.Context, sitePath string) (domain.DBCredentials, error) {
	path, err := locate(sitePath)
	if err != nil {
		return domain.DBCredentials{}, err
	}

	// #nosec G304 - path is derived from configured site directories
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DBCredentials{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	creds := Parse(string(data))
	if creds.Empty() {
		return domain.DBCredentials{}, fmt.Errorf("%w: no DB_NAME in %s", domain.ErrCredentialsMissing, path)
	}

	r.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "wpconfig").
		Str(zerowrap.FieldPath, path).
		Str("db", creds.Name).
		Msg("database credentials read")

	return creds, nil
}

func locate(sitePath string) (string, error) {
	candidates := []string{
		filepath.Join(sitePath, fileName),
		filepath.Join(filepath.Dir(filepath.Clean(sitePath)), fileName),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s not found in %s", domain.ErrCredentialsMissing, fileName, sitePath)
}

// Parse extracts the DB_* constants from wp-config.php source.
func Parse(src string) domain.DBCredentials {
	src = blockCommentRegex.ReplaceAllString(src, "")
	src = lineCommentRegex.ReplaceAllString(src, "")

	var creds domain.DBCredentials
	for _, m := range defineRegex.FindAllStringSubmatch(src, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		value = unescape(value)

		switch m[1] {
		case "DB_NAME":
			creds.Name = value
		case "DB_USER":
			creds.User = value
		case "DB_PASSWORD":
			creds.Password = value
		case "DB_HOST":
			creds.Host, creds.Port, creds.Socket = splitHost(value)
		}
	}
	return creds
}

// splitHost understands the DB_HOST forms WordPress accepts:
// host, host:port, host:/path/to/socket and :/path/to/socket.
func splitHost(value string) (string, int, string) {
	host, rest, found := strings.Cut(value, ":")
	if !found {
		return value, 0, ""
	}
	if host == "" {
		host = "localhost"
	}
	if strings.HasPrefix(rest, "/") {
		return host, 0, rest
	}
	if port, err := strconv.Atoi(rest); err == nil && port > 0 {
		return host, port, ""
	}
	return value, 0, ""
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
