package models

import "gorm.io/gorm"

// User covers both customers and admins; Role decides which surfaces a
// session may reach. Token issuance happens in a separate auth service, this
// API only verifies.
type User struct {
	gorm.Model
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}
