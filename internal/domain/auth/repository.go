package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"portfoliocms/internal/database"
)

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id uint) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Admin) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if database.IsUniqueViolation(err) {
		return ErrAdminExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*Admin, error) {
	var a Admin
	err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&Admin{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Admin{}).Count(&n).Error
	return n, err
}
