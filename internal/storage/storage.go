// Package storage keeps generated artifacts (MIDI files and rendered audio).
// Artifacts live in a local directory by default and in S3 when a bucket is
// configured.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	pathpkg "path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/softwarewrighter/midi-cli/internal/config"
)

// ErrInvalidPath is returned for artifact paths that escape the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for artifact storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file. A missing file yields an error wrapping
	// os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating it. Data is
	// committed when the writer is closed.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Open returns the artifact store selected by cfg.
func Open(ctx context.Context, cfg *config.Config) (FileStore, error) {
	if cfg.S3Bucket == "" {
		return NewLocal(cfg.OutputDir)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: load AWS config: %w", err)
	}
	return NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
}

// Put writes data to path in one call.
func Put(ctx context.Context, fs FileStore, path string, data []byte) error {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Get reads the whole file at path.
func Get(ctx context.Context, fs FileStore, path string) ([]byte, error) {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// CleanPath normalises a caller-supplied artifact path and rejects paths that
// leave the store root.
func CleanPath(p string) (string, error) {
	p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	clean := pathpkg.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return clean, nil
}

var contentTypes = map[string]string{
	".mid":  "audio/midi",
	".midi": "audio/midi",
	".wav":  "audio/wav",
	".json": "application/json",
	".yaml": "application/yaml",
}

// ContentType maps an artifact path to its MIME type.
func ContentType(p string) string {
	if ct, ok := contentTypes[strings.ToLower(pathpkg.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}
