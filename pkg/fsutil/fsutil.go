// Package fsutil reads C# sources and writes fixed sources back safely.
//
// Reads strip a leading UTF-8 byte order mark so the parser sees plain
// source; the mark is remembered on the FileInfo and restored on write.
// Writes are atomic, can leave a sidecar backup, and are refused when the
// file changed on disk since it was read.
package fsutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	ErrNilFileInfo      = errors.New("nil FileInfo")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
)

// utf8BOM is the byte order mark Visual Studio writes at the start of C# files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileInfo is the on-disk state of a source file at read time.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the raw bytes on disk, BOM included.
	Hash [32]byte

	// BOM reports whether the file started with a UTF-8 byte order mark.
	BOM bool
}

// Encode returns the bytes to write for source, restoring the byte order
// mark when the file had one.
func (fi *FileInfo) Encode(source []byte) []byte {
	if fi == nil || !fi.BOM {
		return source
	}
	out := make([]byte, 0, len(utf8BOM)+len(source))
	out = append(out, utf8BOM...)
	return append(out, source...)
}

// statChanged compares size and modification time only.
func (fi *FileInfo) statChanged(stat fs.FileInfo) bool {
	return !stat.ModTime().Equal(fi.ModTime) || stat.Size() != fi.Size
}

// ReadFile reads path and returns its source text without any byte order
// mark, together with the state needed to write it back.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(raw),
	}

	source := raw
	if bytes.HasPrefix(raw, utf8BOM) {
		info.BOM = true
		source = raw[len(utf8BOM):]
	}

	return source, info, nil
}

// CheckModified reports whether the file changed since info was captured.
// A deleted file counts as modified. When size and modification time match,
// the content is re-hashed unless quick is set.
func CheckModified(ctx context.Context, info *FileInfo, quick bool) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	if info.statChanged(stat) {
		return true, nil
	}
	if quick {
		return false, nil
	}

	raw, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(raw) != info.Hash, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
