package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           int64  `gorm:"primaryKey"       json:"id"`
	Email        string `gorm:"unique;not null"  json:"email"`
	PasswordHash string `gorm:"not null"         json:"-"`
	Name         string `json:"name"`
	Condominio   string `gorm:"index"            json:"condominio"`
}

type Product struct {
	ID          int64      `gorm:"primaryKey"       json:"id"`
	Name        string     `gorm:"not null"         json:"name"`
	Description string     `json:"description"`
	Price       float64    `gorm:"not null"         json:"price"`
	Category    string     `gorm:"index"            json:"category"`
	Condominio  string     `gorm:"index"            json:"condominio"`
	SellerID    int64      `json:"sellerId"`
	Images      []string   `gorm:"serializer:json"  json:"images"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Order struct {
	ID     int64  `gorm:"primaryKey"      json:"id"`
	UserID int64  `gorm:"index;not null"  json:"userId"`
	Status string `gorm:"not null"        json:"status"`
	// calendar date only, no time component
	Date     string          `json:"date"`
	Products json.RawMessage `gorm:"serializer:json" json:"products"`
	Total    float64         `json:"total"`
}

type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null"   json:"name"`
	Icon string `json:"icon"`
}
