package models

import "gorm.io/gorm"

// Product is owned by the catalog subsystem. The order workflow only ever
// touches TotalStock, and only downward.
type Product struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"salePrice"`
	TotalStock  int     `json:"totalStock"`
}
