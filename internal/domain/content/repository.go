package content

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Get(ctx context.Context, page, section, key string) (string, error)
	Set(ctx context.Context, page, section, key, value string) error
	ListByPage(ctx context.Context, page string) ([]*Entry, error)
	ListAll(ctx context.Context) ([]*Entry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Get returns "" when nothing was ever stored under the key.
func (r *repository) Get(ctx context.Context, page, section, key string) (string, error) {
	var e Entry
	err := r.db.WithContext(ctx).
		Where("page = ? AND section = ? AND key = ?", page, section, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// Set is a single INSERT ... ON CONFLICT DO UPDATE, so one composite key never
// holds more than one row and concurrent writers simply race (last write wins).
func (r *repository) Set(ctx context.Context, page, section, key, value string) error {
	e := &Entry{Page: page, Section: section, Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "page"}, {Name: "section"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(e).Error
}

func (r *repository) ListByPage(ctx context.Context, page string) ([]*Entry, error) {
	var entries []*Entry
	err := r.db.WithContext(ctx).
		Where("page = ?", page).
		Order("section, key").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ListAll(ctx context.Context) ([]*Entry, error) {
	var entries []*Entry
	err := r.db.WithContext(ctx).Order("page, section, key").Find(&entries).Error
	return entries, err
}
