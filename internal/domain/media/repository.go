package media

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id uint) (*Asset, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*Asset, error)
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Asset, error) {
	var a Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Asset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMediaNotFound
	}
	return nil
}

// List returns the newest uploads first.
func (r *repository) List(ctx context.Context) ([]*Asset, error) {
	var assets []*Asset
	err := r.db.WithContext(ctx).Order("uploaded_at DESC, id DESC").Find(&assets).Error
	return assets, err
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := r.db.WithContext(ctx).Model(&Asset{}).
		Select("COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS total_size").
		Scan(&st).Error
	return &st, err
}
