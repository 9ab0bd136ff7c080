package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// orphanGrace keeps fix mode away from blobs whose record may still be in
// flight.
const orphanGrace = time.Minute

type ReconcileReport struct {
	OrphanBlobs     []string `json:"orphan_blobs"`     // files with no record
	DanglingRecords []*Asset `json:"dangling_records"` // records with no file
	Removed         int      `json:"removed"`
}

// Reconcile compares the upload directory with the media table. With fix set
// it deletes orphan blobs older than a minute and dangling records.
func (s *Service) Reconcile(ctx context.Context, fix bool) (*ReconcileReport, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(assets))
	for _, a := range assets {
		known[a.Filename] = true
	}

	entries, err := os.ReadDir(s.opts.BaseDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	rep := &ReconcileReport{OrphanBlobs: []string{}, DanglingRecords: []*Asset{}}
	onDisk := make(map[string]bool, len(entries))
	cutoff := s.now().Add(-orphanGrace)

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		onDisk[e.Name()] = true
		if known[e.Name()] {
			continue
		}
		rep.OrphanBlobs = append(rep.OrphanBlobs, e.Name())
		if !fix {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.opts.BaseDir, e.Name())); err != nil {
			s.log.Warn("remove orphan blob", zap.String("filename", e.Name()), zap.Error(err))
			continue
		}
		rep.Removed++
	}

	for _, a := range assets {
		if onDisk[a.Filename] {
			continue
		}
		rep.DanglingRecords = append(rep.DanglingRecords, a)
		if !fix {
			continue
		}
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			s.log.Warn("remove dangling record", zap.Uint("id", a.ID), zap.Error(err))
			continue
		}
		rep.Removed++
	}

	sort.Strings(rep.OrphanBlobs)
	if len(rep.OrphanBlobs) > 0 || len(rep.DanglingRecords) > 0 {
		s.log.Info("media reconcile",
			zap.Int("orphan_blobs", len(rep.OrphanBlobs)),
			zap.Int("dangling_records", len(rep.DanglingRecords)),
			zap.Int("removed", rep.Removed),
			zap.Bool("fix", fix),
		)
	}
	return rep, nil
}
