package dashboard

import (
	"context"

	"portfoliocms/internal/domain/casestudy"
	"portfoliocms/internal/domain/media"
)

type CaseStudyCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status casestudy.Status) (int64, error)
}

type MediaStats interface {
	Stats(ctx context.Context) (*media.Stats, error)
}

// Stats is the summary shown on the console landing page.
type Stats struct {
	CaseStudies          int64 `json:"case_studies"`
	PublishedCaseStudies int64 `json:"published_case_studies"`
	MediaFiles           int64 `json:"media_files"`
	TotalSize            int64 `json:"total_size"`
}

type Service struct {
	studies CaseStudyCounter
	media   MediaStats
}

func NewService(studies CaseStudyCounter, media MediaStats) *Service {
	return &Service{studies: studies, media: media}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.studies.Count(ctx)
	if err != nil {
		return nil, err
	}
	published, err := s.studies.CountByStatus(ctx, casestudy.StatusPublished)
	if err != nil {
		return nil, err
	}
	ms, err := s.media.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		CaseStudies:          total,
		PublishedCaseStudies: published,
		MediaFiles:           ms.Count,
		TotalSize:            ms.TotalSize,
	}, nil
}
