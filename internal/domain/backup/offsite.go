package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"portfoliocms/internal/storage"
)

const (
	offsiteSnapshots = "snapshots/"
	offsiteExports   = "exports/"
)

// OffsiteStore is the object storage snapshots and exports are copied to.
// storage.S3Store implements it.
type OffsiteStore interface {
	Put(ctx context.Context, key string, body io.ReadSeeker) error
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// pushSnapshot uploads snap as snapshots/<name>.tar.gz.
func (s *Service) pushSnapshot(ctx context.Context, snap *Snapshot) (string, error) {
	f, err := os.CreateTemp("", snap.Name+"-*.tar.gz")
	if err != nil {
		return "", err
	}
	defer func() {
		f.Close()
		os.Remove(f.Name())
	}()

	if err := writeTarGz(f, snap.Path, snap.Name); err != nil {
		return "", fmt.Errorf("archive %s: %w", snap.Name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := offsiteSnapshots + snap.Name + ".tar.gz"
	if err := s.offsite.Put(ctx, key, f); err != nil {
		return "", err
	}
	s.log.Info("snapshot copied offsite", zap.String("key", key))
	return key, nil
}

func (s *Service) pushExport(ctx context.Context, exportPath string) (string, error) {
	f, err := os.Open(exportPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := offsiteExports + filepath.Base(exportPath)
	if err := s.offsite.Put(ctx, key, f); err != nil {
		return "", err
	}
	s.log.Info("export copied offsite", zap.String("key", key))
	return key, nil
}

// rotateOffsite keeps the newest keep snapshot archives in the store.
func (s *Service) rotateOffsite(ctx context.Context, keep int) error {
	objects, err := s.offsite.List(ctx, offsiteSnapshots)
	if err != nil {
		return err
	}
	if len(objects) <= keep {
		return nil
	}
	for _, obj := range objects[keep:] {
		if err := s.offsite.Delete(ctx, obj.Key); err != nil {
			s.log.Error("delete offsite snapshot", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		s.log.Info("old offsite snapshot removed", zap.String("key", obj.Key))
	}
	return nil
}

// writeTarGz archives the tree under dir with every entry prefixed by root.
func writeTarGz(w io.Writer, dir, root string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = path.Join(root, filepath.ToSlash(rel))
		if d.IsDir() {
			hdr.Name = strings.TrimSuffix(hdr.Name, "/") + "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
