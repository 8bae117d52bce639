package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PrescriptionStatus string

const (
	PrescriptionStatusPending   PrescriptionStatus = "pending"
	PrescriptionStatusAssigned  PrescriptionStatus = "assigned"
	PrescriptionStatusCompleted PrescriptionStatus = "completed"
)

// Prescription is an uploaded prescription image waiting for a pharmacist
// admin to claim and fulfil it. Same claim discipline as orders: AssignedTo
// goes nil -> admin id exactly once.
type Prescription struct {
	gorm.Model
	UserID       *uint  `json:"userId"`
	User         *User  `json:"user,omitempty"`
	LegacyUserID string `json:"legacyUserId,omitempty"`

	ImageURL    string                          `json:"imageUrl"`
	AddressInfo datatypes.JSONType[AddressInfo] `json:"addressInfo"`

	AssignedTo *uint              `json:"assignedTo"`
	Status     PrescriptionStatus `json:"status"`

	UserName string `json:"userName,omitempty" gorm:"-"`
}

func (p *Prescription) CustomerName() string {
	if p.User != nil && p.User.Username != "" {
		return p.User.Username
	}
	if p.LegacyUserID != "" {
		id := p.LegacyUserID
		if len(id) > 8 {
			id = id[:8]
		}
		return "User #" + id
	}
	return "Anonymous User"
}
