package casestudy

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfoliocms/internal/logging"
	"portfoliocms/internal/pkg/validator"
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: logging.OrNop(log), now: time.Now}
}

// WithClock replaces the time source for created_at/updated_at.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func normalize(in *Input) {
	in.Slug = strings.TrimSpace(in.Slug)
	in.Title = strings.TrimSpace(in.Title)
}

// Create stores a new case study. A slug already used by another entry is
// reported as ErrSlugConflict, whether caught up front or by the unique index.
func (s *Service) Create(ctx context.Context, in Input) (*CaseStudy, error) {
	normalize(&in)
	if err := validator.Check(&in); err != nil {
		return nil, err
	}

	taken, err := s.repo.SlugTaken(ctx, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugConflict
	}

	if in.Status == "" {
		in.Status = StatusDraft
	}
	now := s.now().UTC()
	cs := &CaseStudy{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, cs); err != nil {
		return nil, err
	}
	s.log.Info("case study created", zap.Uint("id", cs.ID), zap.String("slug", cs.Slug))
	return cs, nil
}

// GetBySlugOrID treats a positive integer as an id first and falls back to
// a slug lookup, so numeric slugs stay reachable.
func (s *Service) GetBySlugOrID(ctx context.Context, ref string) (*CaseStudy, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		cs, err := s.repo.GetByID(ctx, uint(id))
		if !errors.Is(err, ErrCaseStudyNotFound) {
			return cs, err
		}
	}
	return s.repo.GetBySlug(ctx, ref)
}

func (s *Service) Get(ctx context.Context, id uint) (*CaseStudy, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces every editable field. Status may move freely between
// draft and published; an empty status keeps the current one.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*CaseStudy, error) {
	normalize(&in)
	if err := validator.Check(&in); err != nil {
		return nil, err
	}

	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.SlugTaken(ctx, in.Slug, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugConflict
	}

	cs.Slug = in.Slug
	cs.Title = in.Title
	cs.Description = in.Description
	cs.Content = in.Content
	if in.Status != "" {
		cs.Status = in.Status
	}
	cs.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, cs); err != nil {
		return nil, err
	}
	s.log.Info("case study updated", zap.Uint("id", cs.ID), zap.String("slug", cs.Slug), zap.String("status", string(cs.Status)))
	return cs, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("case study deleted", zap.Uint("id", id))
	return nil
}

// List returns every case study, most recently updated first.
func (s *Service) List(ctx context.Context) ([]*CaseStudy, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*CaseStudy{}
	}
	return out, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, "")
}

func (s *Service) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return s.repo.Count(ctx, status)
}
