package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfoliocms/internal/database"
	"portfoliocms/internal/domain/casestudy"
	"portfoliocms/internal/domain/content"
	"portfoliocms/internal/domain/media"
	"portfoliocms/internal/filex"
	"portfoliocms/internal/logging"
	"portfoliocms/internal/metrics"
)

type Options struct {
	DatabaseURL string
	UploadDir   string
	BackupDir   string
	ExportDir   string
}

type ContentSource interface {
	Entries(ctx context.Context) ([]*content.Entry, error)
}

type CaseStudySource interface {
	List(ctx context.Context) ([]*casestudy.CaseStudy, error)
}

type MediaSource interface {
	List(ctx context.Context) ([]*media.Asset, error)
}

// Sources are the stores an export reads from.
type Sources struct {
	Content     ContentSource
	CaseStudies CaseStudySource
	Media       MediaSource
}

type Service struct {
	db      *gorm.DB
	opts    Options
	src     Sources
	offsite OffsiteStore
	log     *zap.Logger
	now     func() time.Time

	backups *prometheus.CounterVec
	exports *prometheus.CounterVec

	// serializes snapshot creation and rotation between HTTP and the scheduler
	mu sync.Mutex
}

func NewService(db *gorm.DB, opts Options, src Sources, log *zap.Logger, m *metrics.Registry) *Service {
	s := &Service{db: db, opts: opts, src: src, log: logging.OrNop(log), now: time.Now}
	if m != nil {
		s.backups = m.Backups
		s.exports = m.Exports
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithOffsite makes every snapshot and export also land in store.
func (s *Service) WithOffsite(store OffsiteStore) *Service {
	s.offsite = store
	return s
}

// CreateBackup copies the database file and the upload tree into a new
// backup_<timestamp> directory. The snapshot is assembled in a hidden
// temporary directory and renamed into place, so a failed run leaves nothing
// behind and a listed snapshot is always complete.
func (s *Service) CreateBackup(ctx context.Context, operator string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.createBackup(ctx, operator)
	metrics.Observe(s.backups, err)
	if err != nil {
		s.log.Error("backup failed", zap.String("user", operator), zap.Error(err))
		return nil, err
	}
	s.log.Info("backup created",
		zap.String("path", snap.Path),
		zap.String("user", operator),
		zap.Int("files", snap.Files),
		zap.Int64("database_size", snap.DatabaseSize),
	)

	if s.offsite != nil {
		key, err := s.pushSnapshot(ctx, snap)
		if err != nil {
			s.log.Error("offsite snapshot upload failed", zap.String("name", snap.Name), zap.Error(err))
		} else {
			snap.OffsiteKey = key
		}
	}
	return snap, nil
}

func (s *Service) createBackup(ctx context.Context, operator string) (*Snapshot, error) {
	if strings.TrimSpace(s.opts.BackupDir) == "" {
		return nil, ErrNoBackupDir
	}
	if database.IsPostgresDSN(s.opts.DatabaseURL) {
		return nil, ErrUnsupportedDatabase
	}
	dbPath := database.SQLiteFilePath(s.opts.DatabaseURL)
	if dbPath == "" {
		return nil, ErrUnsupportedDatabase
	}

	s.checkpoint(ctx)

	if err := filex.EnsureDir(s.opts.BackupDir); err != nil {
		return nil, err
	}
	now := s.now()
	name, err := freeName(s.opts.BackupDir, snapshotPrefix+now.Format(stampLayout), "")
	if err != nil {
		return nil, err
	}
	final := filepath.Join(s.opts.BackupDir, name)
	tmp := filepath.Join(s.opts.BackupDir, "."+name+".tmp")

	if err := os.Mkdir(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			_ = os.RemoveAll(tmp)
		}
	}()

	dbSize, err := filex.CopyFile(dbPath, filepath.Join(tmp, databaseFile))
	if err != nil {
		return nil, fmt.Errorf("copy database: %w", err)
	}

	files := 0
	if info, err := os.Stat(s.opts.UploadDir); err == nil && info.IsDir() {
		files, err = filex.CopyDir(s.opts.UploadDir, filepath.Join(tmp, uploadsDir))
		if err != nil {
			return nil, fmt.Errorf("copy uploads: %w", err)
		}
	}

	info := Info{
		CreatedAt:    now.UTC(),
		User:         operator,
		Files:        files,
		DatabaseSize: dbSize,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(filepath.Join(tmp, infoFile), data); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, final); err != nil {
		return nil, fmt.Errorf("finalize snapshot: %w", err)
	}
	ok = true

	return &Snapshot{Name: name, Path: final, Info: info}, nil
}

// checkpoint folds the WAL into the main database file before it is copied.
func (s *Service) checkpoint(ctx context.Context) {
	if s.db == nil {
		return
	}
	if err := s.db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		s.log.Warn("sqlite checkpoint before backup failed", zap.Error(err))
	}
}

// freeName returns base+ext, or base_2+ext, base_3+ext... when an entry (or
// its in-progress temp dir) with that name already exists in dir.
func freeName(dir, base, ext string) (string, error) {
	for n := 1; n <= 100; n++ {
		name := base + ext
		if n > 1 {
			name = base + "_" + strconv.Itoa(n) + ext
		}
		if !filex.Exists(filepath.Join(dir, name)) && !filex.Exists(filepath.Join(dir, "."+name+".tmp")) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no free name for %s%s in %s", base, ext, dir)
}

// Export writes every content entry, case study and media record into one
// JSON document under the export directory.
func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.export(ctx)
	metrics.Observe(s.exports, err)
	if err != nil {
		s.log.Error("export failed", zap.Error(err))
		return nil, err
	}
	s.log.Info("export written", zap.String("path", res.Path))

	if s.offsite != nil {
		key, err := s.pushExport(ctx, res.Path)
		if err != nil {
			s.log.Error("offsite export upload failed", zap.String("path", res.Path), zap.Error(err))
		} else {
			res.OffsiteKey = key
		}
	}
	return res, nil
}

func (s *Service) export(ctx context.Context) (*ExportResult, error) {
	doc, err := s.BuildDocument(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := filex.EnsureDir(s.opts.ExportDir); err != nil {
		return nil, err
	}
	name, err := freeName(s.opts.ExportDir, exportPrefix+doc.ExportedAt.Format(stampLayout), ".json")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.opts.ExportDir, name)
	if err := filex.WriteFileAtomic(path, data); err != nil {
		return nil, err
	}
	return &ExportResult{Path: path, ExportedAt: doc.ExportedAt}, nil
}

// BuildDocument collects the export document without writing it.
func (s *Service) BuildDocument(ctx context.Context) (*Document, error) {
	doc := &Document{
		ExportedAt:  s.now().UTC(),
		Content:     map[string]map[string]map[string]string{},
		CaseStudies: []CaseStudyRecord{},
		Media:       []MediaRecord{},
	}

	entries, err := s.src.Content.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	for _, e := range entries {
		page := doc.Content[e.Page]
		if page == nil {
			page = map[string]map[string]string{}
			doc.Content[e.Page] = page
		}
		if page[e.Section] == nil {
			page[e.Section] = map[string]string{}
		}
		page[e.Section][e.Key] = e.Value
	}

	studies, err := s.src.CaseStudies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read case studies: %w", err)
	}
	for _, cs := range studies {
		doc.CaseStudies = append(doc.CaseStudies, caseStudyRecord(cs))
	}

	assets, err := s.src.Media.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	for _, a := range assets {
		doc.Media = append(doc.Media, mediaRecord(a))
	}
	return doc, nil
}

// ListBackups returns the finished snapshots, newest first. Temporary
// directories of runs in progress are skipped.
func (s *Service) ListBackups(ctx context.Context) ([]*Snapshot, error) {
	entries, err := os.ReadDir(s.opts.BackupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	out := []*Snapshot{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() || !strings.HasPrefix(e.Name(), snapshotPrefix) {
			continue
		}
		snap := &Snapshot{Name: e.Name(), Path: filepath.Join(s.opts.BackupDir, e.Name())}
		if data, err := os.ReadFile(filepath.Join(snap.Path, infoFile)); err == nil {
			if err := json.Unmarshal(data, &snap.Info); err != nil {
				s.log.Warn("unreadable backup_info.json", zap.String("name", e.Name()), zap.Error(err))
			}
		}
		if snap.CreatedAt.IsZero() {
			if fi, err := e.Info(); err == nil {
				snap.CreatedAt = fi.ModTime().UTC()
			}
		}
		out = append(out, snap)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// Rotate deletes local snapshots beyond the newest keep, and the same for
// offsite snapshots when a store is configured. keep <= 0 keeps everything.
func (s *Service) Rotate(ctx context.Context, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps, err := s.ListBackups(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	if len(snaps) > keep {
		for _, snap := range snaps[keep:] {
			if err := os.RemoveAll(snap.Path); err != nil {
				s.log.Error("remove old snapshot", zap.String("name", snap.Name), zap.Error(err))
				continue
			}
			removed = append(removed, snap.Name)
			s.log.Info("old snapshot removed", zap.String("name", snap.Name))
		}
	}

	if s.offsite != nil {
		if err := s.rotateOffsite(ctx, keep); err != nil {
			s.log.Error("offsite rotation failed", zap.Error(err))
		}
	}
	return removed, nil
}
