package services

import (
	"errors"

	"github.com/medikart/medikart-api/models"
	"github.com/medikart/medikart-api/realtime"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrescriptionService runs the same claim workflow as orders for uploaded
// prescriptions: pending -> assigned (first admin claim) -> completed.
type PrescriptionService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewPrescriptionService(db *gorm.DB, hub *realtime.Hub) *PrescriptionService {
	return &PrescriptionService{db: db, hub: hub}
}

type SubmitPrescriptionInput struct {
	UserID       *uint              `json:"userId"`
	LegacyUserID string             `json:"legacyUserId"`
	ImageURL     string             `json:"imageUrl"`
	AddressInfo  models.AddressInfo `json:"addressInfo"`
}

// Submit records an uploaded prescription and tells the admin dashboard about
// it. The image itself is stored elsewhere; only its URL arrives here.
func (s *PrescriptionService) Submit(input SubmitPrescriptionInput) (*models.Prescription, error) {
	if input.ImageURL == "" {
		return nil, &ValidationError{Message: "prescription image is required"}
	}

	prescription := models.Prescription{
		UserID:       input.UserID,
		LegacyUserID: input.LegacyUserID,
		ImageURL:     input.ImageURL,
		AddressInfo:  datatypes.NewJSONType(input.AddressInfo),
		Status:       models.PrescriptionStatusPending,
	}

	if err := s.db.Create(&prescription).Error; err != nil {
		return nil, err
	}

	prescription.UserName = prescription.CustomerName()
	s.hub.Publish(realtime.TopicAdminPrescriptions, realtime.EventAdminNewPrescription, prescription)

	return &prescription, nil
}

// Accept claims a prescription for an admin, first claim wins.
func (s *PrescriptionService) Accept(prescriptionID, adminID uint) (*models.Prescription, error) {
	res := s.db.Model(&models.Prescription{}).
		Where("id = ? AND assigned_to IS NULL", prescriptionID).
		Updates(map[string]any{
			"assigned_to": adminID,
			"status":      models.PrescriptionStatusAssigned,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Prescription{}).Where("id = ?", prescriptionID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrPrescriptionNotFound
		}
		return nil, ErrAlreadyAssigned
	}

	prescription, err := s.GetByID(prescriptionID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(realtime.TopicAdminPrescriptions, realtime.EventPrescriptionAccepted, prescriptionID)

	return prescription, nil
}

// Complete closes out a prescription. Only the claiming admin may do it.
func (s *PrescriptionService) Complete(prescriptionID, adminID uint) (*models.Prescription, error) {
	res := s.db.Model(&models.Prescription{}).
		Where("id = ? AND assigned_to = ?", prescriptionID, adminID).
		Update("status", models.PrescriptionStatusCompleted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Prescription{}).Where("id = ?", prescriptionID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrPrescriptionNotFound
		}
		return nil, ErrNotAuthorized
	}

	return s.GetByID(prescriptionID)
}

func (s *PrescriptionService) GetByID(prescriptionID uint) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := s.db.Preload("User").First(&prescription, prescriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	prescription.UserName = prescription.CustomerName()
	return &prescription, nil
}

func (s *PrescriptionService) ListUnassigned() ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := s.db.Preload("User").
		Where("assigned_to IS NULL").
		Order("created_at DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	for i := range prescriptions {
		prescriptions[i].UserName = prescriptions[i].CustomerName()
	}
	return prescriptions, nil
}

func (s *PrescriptionService) ListAssignedTo(adminID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	if err := s.db.Preload("User").
		Where("assigned_to = ?", adminID).
		Order("created_at DESC").
		Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	for i := range prescriptions {
		prescriptions[i].UserName = prescriptions[i].CustomerName()
	}
	return prescriptions, nil
}
