package jsonfile

import (
	"context"

	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/store"
)

type users struct{ db *DB }

func (s *users) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Users {
		if s.db.doc.Users[i].ID == id {
			u := s.db.doc.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Users {
		if s.db.doc.Users[i].Email == email {
			u := s.db.doc.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *users) Insert(ctx context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.doc.Users = append(s.db.doc.Users, *u)
	return s.db.persist()
}

type products struct{ db *DB }

func (s *products) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Products {
		if s.db.doc.Products[i].ID == id {
			p := s.db.doc.Products[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *products) Filter(ctx context.Context, keep func(*models.Product) bool) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Product, 0, len(s.db.doc.Products))
	for i := range s.db.doc.Products {
		if keep(&s.db.doc.Products[i]) {
			out = append(out, s.db.doc.Products[i])
		}
	}
	return out, nil
}

func (s *products) Insert(ctx context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.doc.Products = append(s.db.doc.Products, *p)
	return s.db.persist()
}

func (s *products) Update(ctx context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Products {
		if s.db.doc.Products[i].ID == p.ID {
			s.db.doc.Products[i] = *p
			return s.db.persist()
		}
	}
	return store.ErrNotFound
}

func (s *products) Remove(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Products {
		if s.db.doc.Products[i].ID == id {
			s.db.doc.Products = append(s.db.doc.Products[:i], s.db.doc.Products[i+1:]...)
			return s.db.persist()
		}
	}
	return store.ErrNotFound
}

type orders struct{ db *DB }

func (s *orders) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Orders {
		if s.db.doc.Orders[i].ID == id {
			o := s.db.doc.Orders[i]
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *orders) Filter(ctx context.Context, keep func(*models.Order) bool) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Order, 0, len(s.db.doc.Orders))
	for i := range s.db.doc.Orders {
		if keep(&s.db.doc.Orders[i]) {
			out = append(out, s.db.doc.Orders[i])
		}
	}
	return out, nil
}

func (s *orders) Insert(ctx context.Context, o *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.doc.Orders = append(s.db.doc.Orders, *o)
	return s.db.persist()
}

func (s *orders) Update(ctx context.Context, o *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Orders {
		if s.db.doc.Orders[i].ID == o.ID {
			s.db.doc.Orders[i] = *o
			return s.db.persist()
		}
	}
	return store.ErrNotFound
}

func (s *orders) Remove(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i := range s.db.doc.Orders {
		if s.db.doc.Orders[i].ID == id {
			s.db.doc.Orders = append(s.db.doc.Orders[:i], s.db.doc.Orders[i+1:]...)
			return s.db.persist()
		}
	}
	return store.ErrNotFound
}

type categories struct{ db *DB }

func (s *categories) All(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Category, len(s.db.doc.Categories))
	copy(out, s.db.doc.Categories)
	return out, nil
}
