package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"portfoliocms/internal/filex"
	"portfoliocms/internal/logging"
	"portfoliocms/internal/metrics"
)

const (
	DefaultMaxFileSize int64 = 16 << 20

	stampLayout     = "20060102_150405"
	maxNameAttempts = 100
)

type Options struct {
	BaseDir     string // upload directory on disk
	URLPrefix   string // public prefix the files are served under, "/uploads"
	MaxFileSize int64
}

// Service keeps the upload directory and the media table in step: a blob is
// written before its record and removed before its record is deleted.
type Service struct {
	repo    Repository
	opts    Options
	log     *zap.Logger
	now     func() time.Time
	uploads *prometheus.CounterVec
	deletes *prometheus.CounterVec
}

func NewService(repo Repository, opts Options, log *zap.Logger, m *metrics.Registry) *Service {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/uploads"
	}
	s := &Service{repo: repo, opts: opts, log: logging.OrNop(log), now: time.Now}
	if m != nil {
		s.uploads = m.MediaUploads
		s.deletes = m.MediaDeletes
	}
	return s
}

// WithClock replaces the time source used for storage names and timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Dir() string { return s.opts.BaseDir }

// Upload stores r under a generated name and records it. originalName is
// only used for the extension check, the stored base name and the record.
func (s *Service) Upload(ctx context.Context, originalName string, r io.Reader) (*Asset, error) {
	a, err := s.upload(ctx, originalName, r)
	metrics.Observe(s.uploads, err)
	return a, err
}

func (s *Service) upload(ctx context.Context, originalName string, r io.Reader) (*Asset, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if strings.TrimSpace(originalName) == "" {
		return nil, ErrEmptyFilename
	}
	if !isAllowed(originalName) {
		return nil, ErrFileTypeNotAllowed
	}

	if err := filex.EnsureDir(s.opts.BaseDir); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}

	now := s.now()
	base, ext := splitSafeName(originalName)
	f, name, err := s.createUnique(base, now.Format(stampLayout), ext)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(s.opts.BaseDir, name)

	written, copyErr := io.Copy(f, io.LimitReader(r, s.opts.MaxFileSize+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		s.removeBlob(full)
		return nil, fmt.Errorf("write upload: %w", copyErr)
	case closeErr != nil:
		s.removeBlob(full)
		return nil, fmt.Errorf("write upload: %w", closeErr)
	case written > s.opts.MaxFileSize:
		s.removeBlob(full)
		return nil, ErrFileTooLarge
	}

	info, err := os.Stat(full)
	if err != nil {
		s.removeBlob(full)
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size() == 0 {
		s.removeBlob(full)
		return nil, ErrEmptyFile
	}

	a := &Asset{
		Filename:     name,
		OriginalName: originalName,
		FileType:     strings.ToLower(ext),
		FileSize:     info.Size(),
		URL:          strings.TrimRight(s.opts.URLPrefix, "/") + "/" + name,
		UploadedAt:   now.UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.removeBlob(full)
		return nil, fmt.Errorf("create media record: %w", err)
	}

	s.log.Info("media uploaded",
		zap.Uint("id", a.ID),
		zap.String("filename", a.Filename),
		zap.Int64("size", a.FileSize),
	)
	return a, nil
}

// createUnique opens a new file exclusively so two uploads in the same
// second never share a name.
func (s *Service) createUnique(base, stamp, ext string) (*os.File, string, error) {
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := storageName(base, stamp, ext, attempt)
		f, err := os.OpenFile(filepath.Join(s.opts.BaseDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload: no free name for %s_%s%s", base, stamp, ext)
}

func (s *Service) removeBlob(full string) {
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Error("orphan blob left on disk", zap.String("path", full), zap.Error(err))
	}
}

// Delete removes the blob and then the record. A blob that is already gone
// is not an error; any other removal failure leaves the record in place.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.delete(ctx, id)
	metrics.Observe(s.deletes, err)
	return err
}

func (s *Service) delete(ctx context.Context, id uint) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Filename == "" || filepath.Base(a.Filename) != a.Filename || a.Filename == "." || a.Filename == ".." {
		return ErrUnsafeFilename
	}

	full := filepath.Join(s.opts.BaseDir, a.Filename)
	if err := os.Remove(full); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove blob %s: %w", a.Filename, err)
		}
		s.log.Warn("media blob already missing", zap.Uint("id", id), zap.String("filename", a.Filename))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("media record left without blob", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("delete media record: %w", err)
	}
	s.log.Info("media deleted", zap.Uint("id", id), zap.String("filename", a.Filename))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) ([]*Asset, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []*Asset{}
	}
	return assets, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
