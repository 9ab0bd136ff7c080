package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"portfoliocms/internal/logging"
	"portfoliocms/internal/metrics"
	"portfoliocms/internal/pkg/validator"
)

// Service layers the typed page schemas over the generic key/value store.
type Service struct {
	repo   Repository
	log    *zap.Logger
	writes *prometheus.CounterVec
}

func NewService(repo Repository, log *zap.Logger, m *metrics.Registry) *Service {
	s := &Service{repo: repo, log: logging.OrNop(log)}
	if m != nil {
		s.writes = m.ContentWrites
	}
	return s
}

// Get returns the stored value or "" when the key was never written.
func (s *Service) Get(ctx context.Context, page, section, key string) (string, error) {
	return s.repo.Get(ctx, page, section, key)
}

// Set upserts one value. The value is not inspected.
func (s *Service) Set(ctx context.Context, page, section, key, value string) error {
	if strings.TrimSpace(page) == "" || strings.TrimSpace(section) == "" || strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	err := s.repo.Set(ctx, page, section, key, value)
	metrics.Observe(s.writes, err)
	if err != nil {
		return fmt.Errorf("set content %s/%s/%s: %w", page, section, key, err)
	}
	return nil
}

// Entries returns every stored entry, ordered by page, section, key.
func (s *Service) Entries(ctx context.Context) ([]*Entry, error) {
	return s.repo.ListAll(ctx)
}

// Page returns section -> key -> value for one page. List keys are decoded
// from JSON and a list that does not parse is reported as a MalformedError;
// every other value is returned as stored.
func (s *Service) Page(ctx context.Context, page string) (map[string]map[string]any, error) {
	entries, err := s.repo.ListByPage(ctx, page)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any)
	for _, e := range entries {
		v, err := decodeValue(e)
		if err != nil {
			return nil, err
		}
		if out[e.Section] == nil {
			out[e.Section] = make(map[string]any)
		}
		out[e.Section][e.Key] = v
	}
	return out, nil
}

func decodeValue(e *Entry) (any, error) {
	if !isListKey(e.Key) {
		return e.Value, nil
	}
	trimmed := strings.TrimSpace(e.Value)
	if trimmed == "" {
		return []any{}, nil
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, &MalformedError{Page: e.Page, Section: e.Section, Key: e.Key, Err: err}
	}
	return v, nil
}

// LoadHomepage reads the homepage keys. Missing lists come back empty.
func (s *Service) LoadHomepage(ctx context.Context) (*Homepage, error) {
	r := pageReader{ctx: ctx, s: s, page: PageHomepage}

	h := &Homepage{
		Hero: Hero{
			Line1:    r.text(SectionHero, KeyLine1),
			Line2:    r.text(SectionHero, KeyLine2),
			Subtitle: r.text(SectionHero, KeySubtitle),
		},
		Present: ListSection{
			Title: r.text(SectionPresent, KeyTitle),
			Items: r.items(SectionPresent),
		},
		Past: ListSection{
			Title: r.text(SectionPast, KeyTitle),
			Items: r.items(SectionPast),
		},
		Social: SocialSection{Items: r.items(SectionSocial)},
	}
	if r.err != nil {
		return nil, r.err
	}
	return h, nil
}

// SaveHomepage validates h and writes every homepage key.
func (s *Service) SaveHomepage(ctx context.Context, h *Homepage) error {
	if err := validator.Check(h); err != nil {
		return err
	}
	w := pageWriter{ctx: ctx, s: s, page: PageHomepage}
	w.text(SectionHero, KeyLine1, h.Hero.Line1)
	w.text(SectionHero, KeyLine2, h.Hero.Line2)
	w.text(SectionHero, KeySubtitle, h.Hero.Subtitle)
	w.text(SectionPresent, KeyTitle, h.Present.Title)
	w.items(SectionPresent, h.Present.Items)
	w.text(SectionPast, KeyTitle, h.Past.Title)
	w.items(SectionPast, h.Past.Items)
	w.items(SectionSocial, h.Social.Items)
	if w.err == nil {
		s.log.Info("homepage saved")
	}
	return w.err
}

func (s *Service) LoadPortfolio(ctx context.Context) (*Portfolio, error) {
	r := pageReader{ctx: ctx, s: s, page: PagePortfolio}
	p := &Portfolio{
		Title:       r.text(SectionMain, KeyTitle),
		Description: r.text(SectionMain, KeyDescription),
		Items:       r.items(SectionMain),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func (s *Service) SavePortfolio(ctx context.Context, p *Portfolio) error {
	if err := validator.Check(p); err != nil {
		return err
	}
	w := pageWriter{ctx: ctx, s: s, page: PagePortfolio}
	w.text(SectionMain, KeyTitle, p.Title)
	w.text(SectionMain, KeyDescription, p.Description)
	w.items(SectionMain, p.Items)
	if w.err == nil {
		s.log.Info("portfolio saved", zap.Int("items", len(p.Items)))
	}
	return w.err
}

// pageReader keeps the first error so the typed loaders read like a form.
type pageReader struct {
	ctx  context.Context
	s    *Service
	page string
	err  error
}

func (r *pageReader) text(section, key string) string {
	if r.err != nil {
		return ""
	}
	v, err := r.s.repo.Get(r.ctx, r.page, section, key)
	if err != nil {
		r.err = fmt.Errorf("get content %s/%s/%s: %w", r.page, section, key, err)
	}
	return v
}

func (r *pageReader) items(section string) []LinkItem {
	raw := r.text(section, KeyItems)
	if r.err != nil {
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		return []LinkItem{}
	}
	var items []LinkItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.err = &MalformedError{Page: r.page, Section: section, Key: KeyItems, Err: err}
		return nil
	}
	return nonNil(items)
}

type pageWriter struct {
	ctx  context.Context
	s    *Service
	page string
	err  error
}

func (w *pageWriter) text(section, key, value string) {
	if w.err != nil {
		return
	}
	w.err = w.s.Set(w.ctx, w.page, section, key, value)
}

func (w *pageWriter) items(section string, items []LinkItem) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(nonNil(items))
	if err != nil {
		w.err = err
		return
	}
	w.text(section, KeyItems, string(data))
}
