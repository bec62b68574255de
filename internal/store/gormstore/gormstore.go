// Package gormstore implements the store interfaces on a gorm database
// (postgres in production, sqlite in tests).
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/store"
)

type Users struct {
	DB *gorm.DB
}

func (r *Users) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *Users) Insert(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

type Products struct {
	DB *gorm.DB
}

func (r *Products) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *Products) Filter(ctx context.Context, keep func(*models.Product) bool) ([]models.Product, error) {
	var all []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *Products) Insert(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Products) Update(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *Products) Remove(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type Orders struct {
	DB *gorm.DB
}

func (r *Orders) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r *Orders) Filter(ctx context.Context, keep func(*models.Order) bool) ([]models.Order, error) {
	var all []models.Order
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *Orders) Insert(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *Orders) Update(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Save(o).Error
}

func (r *Orders) Remove(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type Categories struct {
	DB *gorm.DB
}

func (r *Categories) All(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
