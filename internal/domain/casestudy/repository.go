package casestudy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"portfoliocms/internal/database"
)

type Repository interface {
	Create(ctx context.Context, cs *CaseStudy) error
	GetByID(ctx context.Context, id uint) (*CaseStudy, error)
	GetBySlug(ctx context.Context, slug string) (*CaseStudy, error)
	Update(ctx context.Context, cs *CaseStudy) error
	Delete(ctx context.Context, id uint) error
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	List(ctx context.Context) ([]*CaseStudy, error)
	Count(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cs *CaseStudy) error {
	err := r.db.WithContext(ctx).Create(cs).Error
	if database.IsUniqueViolation(err) {
		return ErrSlugConflict
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*CaseStudy, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*CaseStudy, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*CaseStudy, error) {
	var cs CaseStudy
	err := r.db.WithContext(ctx).Where(query, arg).First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaseStudyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// Update writes every editable column, zero values included.
func (r *repository) Update(ctx context.Context, cs *CaseStudy) error {
	res := r.db.WithContext(ctx).Model(&CaseStudy{}).Where("id = ?", cs.ID).Updates(map[string]any{
		"slug":        cs.Slug,
		"title":       cs.Title,
		"description": cs.Description,
		"content":     cs.Content,
		"status":      cs.Status,
		"updated_at":  cs.UpdatedAt,
	})
	if database.IsUniqueViolation(res.Error) {
		return ErrSlugConflict
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCaseStudyNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CaseStudy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCaseStudyNotFound
	}
	return nil
}

func (r *repository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&CaseStudy{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

// List returns the most recently updated first.
func (r *repository) List(ctx context.Context) ([]*CaseStudy, error) {
	var out []*CaseStudy
	err := r.db.WithContext(ctx).Order("updated_at DESC, id DESC").Find(&out).Error
	return out, err
}

// Count counts case studies with the given status, or all of them when
// status is empty.
func (r *repository) Count(ctx context.Context, status Status) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&CaseStudy{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}
