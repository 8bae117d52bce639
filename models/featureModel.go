package models

import "gorm.io/gorm"

// Feature is a curated storefront banner image.
type Feature struct {
	gorm.Model
	Image string `json:"image"`
}
