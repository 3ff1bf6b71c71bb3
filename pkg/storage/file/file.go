// Package file implements storage.Storage on a single local file that is
// replaced atomically on every save.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"briefing/pkg/domain"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"
	"briefing/pkg/storage"

	"go.uber.org/zap"
)

// DefaultPerm is the permission given to a newly written record.
const DefaultPerm fs.FileMode = 0o644

// Options configure a file backed storage.
type Options struct {
	// Path is the location of the durable record, e.g. "missions.json".
	Path string
	// Codec overrides the encoding chosen from the path extension.
	Codec Codec
	// Perm is the file mode of the written record. Zero means DefaultPerm.
	Perm fs.FileMode
}

// File stores the collection in one file. It assumes a single writing process.
type File struct {
	path  string
	codec Codec
	perm  fs.FileMode
}

var _ storage.Storage = (*File)(nil)

// New validates options and returns a file storage. No I/O happens until Load or Save.
func New(opts Options) (*File, error) {
	if opts.Path == "" {
		return nil, errors.New("record path must not be empty")
	}
	if opts.Codec == nil {
		opts.Codec = CodecFor(opts.Path)
	}
	if opts.Perm == 0 {
		opts.Perm = DefaultPerm
	}

	return &File{
		path:  filepath.Clean(opts.Path),
		codec: opts.Codec,
		perm:  opts.Perm,
	}, nil
}

// Location returns the record path.
func (f *File) Location() string { return f.path }

// Load reads and decodes the record.
func (f *File) Load(ctx context.Context) ([]domain.PointOfInterest, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.path, storage.ErrNotExist)
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not read %s", f.path)
	}

	records, err := f.codec.Unmarshal(data)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCorruptStore, err, "malformed record %s", f.path)
	}

	pois, err := storage.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("invalid record %s: %w", f.path, err)
	}

	logger.Debug(ctx, "loaded durable record",
		zap.String("path", f.path),
		zap.String("codec", f.codec.Name()),
		zap.Int("pois", len(pois)))

	return pois, nil
}

// Save encodes pois and replaces the record: the bytes go to a temporary file
// in the same directory which is synced and then renamed over the record.
func (f *File) Save(ctx context.Context, pois []domain.PointOfInterest) error {
	data, err := f.codec.Marshal(storage.ToRecords(pois))
	if err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not encode %s", f.path)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not create temporary record")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not write %s", tmpName)
	}
	if err := tmp.Chmod(f.perm); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not chmod %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not close %s", tmpName)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return serrors.Wrap(serrors.ErrPersist, err, "could not replace %s", f.path)
	}
	committed = true

	logger.Debug(ctx, "saved durable record",
		zap.String("path", f.path),
		zap.Int("pois", len(pois)),
		zap.Int("bytes", len(data)))

	return nil
}
