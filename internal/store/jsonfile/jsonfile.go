// Package jsonfile implements the store interfaces on a single JSON
// document, the way the flat-file deployment keeps its db.json: every
// mutation rewrites the whole file under a lock, last write wins.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/store"
)

type document struct {
	Users      []models.User     `json:"users"`
	Products   []models.Product  `json:"products"`
	Orders     []models.Order    `json:"orders"`
	Categories []models.Category `json:"categories"`
}

type DB struct {
	mu   sync.Mutex
	path string
	doc  document
}

func Open(path string) (*DB, error) {
	db := &DB{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := db.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("jsonfile: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &db.doc); err != nil {
			return nil, fmt.Errorf("jsonfile: parse %s: %w", path, err)
		}
	}
	return db, nil
}

// persist rewrites the whole document. Callers must hold mu.
func (db *DB) persist() error {
	data, err := json.MarshalIndent(&db.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: marshal: %w", err)
	}
	tmp := db.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, db.path)
}

func (db *DB) Users() store.Users           { return &users{db} }
func (db *DB) Products() store.Products     { return &products{db} }
func (db *DB) Orders() store.Orders         { return &orders{db} }
func (db *DB) Categories() store.Categories { return &categories{db} }
