// Package archive packs site files into gzip-compressed tarballs.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bnema/zerowrap"
	"github.com/klauspost/compress/gzip"

	"github.com/bnema/wpbackup/internal/domain"
)

// maxEntrySize bounds a single extracted file.
const maxEntrySize int64 = 8 << 30

// ErrUnsafeEntry is returned for entries that would resolve outside the
// extraction directory, directly or through a symlink.
var ErrUnsafeEntry = errors.New("archive entry escapes destination")

// Tarball implements out.Archiver with tar over gzip.
type Tarball struct {
	level int
}

// NewTarball creates an archiver. level is a gzip compression level;
// zero selects gzip.DefaultCompression.
func NewTarball(level int) (*Tarball, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("invalid gzip level %d", level)
	}
	return &Tarball{level: level}, nil
}

// writers holds the gzip and tar writers so they close in reverse order.
type writers struct {
	tar     *tar.Writer
	closers []io.Closer
}

func (w *writers) Close() error {
	var firstErr error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Pack writes every entry into w. Directories are walked recursively;
// symlinks are stored as links and never followed.
func (t *Tarball) Pack(ctx context.Context, w io.Writer, entries []domain.ArchiveEntry) (err error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "archive",
		zerowrap.FieldAction:  "Pack",
	})
	log := zerowrap.FromCtx(ctx)

	gz, err := gzip.NewWriterLevel(w, t.level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tw := tar.NewWriter(gz)
	ws := &writers{tar: tw, closers: []io.Closer{gz, tw}}
	defer func() {
		if closeErr := ws.Close(); err == nil {
			err = closeErr
		}
	}()

	files := 0
	for _, entry := range entries {
		n, err := t.addEntry(ctx, tw, entry)
		if err != nil {
			return err
		}
		files += n
	}

	log.Debug().Int(zerowrap.FieldCount, files).Msg("archive packed")
	return nil
}

func (t *Tarball) addEntry(ctx context.Context, tw *tar.Writer, entry domain.ArchiveEntry) (int, error) {
	name, err := cleanArchiveName(entry.Name)
	if err != nil {
		return 0, err
	}

	root := filepath.Clean(entry.Path)
	files := 0
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		member := name
		if rel != "." {
			member = path.Join(name, filepath.ToSlash(rel))
		}

		if err := addFile(tw, p, member, d); err != nil {
			return fmt.Errorf("failed to add %s: %w", p, err)
		}
		if d.Type().IsRegular() {
			files++
		}
		return nil
	})
	return files, err
}

func addFile(tw *tar.Writer, p, member string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(p); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = member
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Unpack extracts the archive read from r below dest. Entries that would
// land outside dest are rejected.
func (t *Tarball) Unpack(ctx context.Context, r io.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return err
	}
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return err
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		if err := extractEntry(tr, header, dest, root); err != nil {
			return err
		}
	}
}

// extractEntry writes one entry. dest is the lexical extraction directory,
// root its symlink-free form.
func extractEntry(tr *tar.Reader, header *tar.Header, dest, root string) error {
	target, err := validateAndBuildDestPath(dest, header.Name)
	if err != nil {
		return err
	}
	mode := os.FileMode(header.Mode).Perm()

	switch header.Typeflag {
	case tar.TypeDir:
		_, err := ensureDir(root, target, mode|0o700)
		return err
	case tar.TypeSymlink:
		parent, err := ensureDir(root, filepath.Dir(target), 0o750)
		if err != nil {
			return err
		}
		if filepath.IsAbs(header.Linkname) || !within(root, filepath.Join(parent, header.Linkname)) {
			return fmt.Errorf("%w: %s -> %s", ErrUnsafeEntry, header.Name, header.Linkname)
		}
		target = filepath.Join(parent, filepath.Base(target))
		if err := removeSymlink(target); err != nil {
			return err
		}
		return os.Symlink(header.Linkname, target)
	case tar.TypeReg:
		if header.Size > maxEntrySize {
			return fmt.Errorf("file too large: %s (%d bytes)", header.Name, header.Size)
		}
		parent, err := ensureDir(root, filepath.Dir(target), 0o750)
		if err != nil {
			return err
		}
		target = filepath.Join(parent, filepath.Base(target))
		if err := removeSymlink(target); err != nil {
			return err
		}
		return extractFile(tr, target, header.Size, mode)
	default:
		// devices, fifos and hard links have no place in a site archive
		return nil
	}
}

// ensureDir creates dir after checking that its deepest existing ancestor
// resolves inside root, and returns dir with symlinks resolved.
func ensureDir(root, dir string, mode os.FileMode) (string, error) {
	existing := dir
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}
	if _, err := resolveWithin(root, existing); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, mode); err != nil {
		return "", err
	}
	return resolveWithin(root, dir)
}

func resolveWithin(root, p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	if !within(root, resolved) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, p)
	}
	return resolved, nil
}

func within(root, p string) bool {
	p = filepath.Clean(p)
	return p == root || strings.HasPrefix(p, root+string(os.PathSeparator))
}

// removeSymlink drops a symlink already sitting at target so the entry
// replaces it instead of writing through it.
func removeSymlink(target string) error {
	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return os.Remove(target)
	}
	return nil
}

func extractFile(r io.Reader, target string, size int64, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o600)
	if err != nil {
		return err
	}

	_, err = io.Copy(f, io.LimitReader(r, size))
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}
	if closeErr != nil {
		_ = os.Remove(target)
		return closeErr
	}
	return nil
}

func validateAndBuildDestPath(dest, name string) (string, error) {
	clean := filepath.Clean(dest)
	target := filepath.Join(clean, filepath.FromSlash(name))
	if target != clean && !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path in archive: %s", name)
	}
	return target, nil
}

func cleanArchiveName(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid archive entry name %q", name)
	}
	return clean, nil
}
