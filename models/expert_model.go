package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Specialization string

const (
	SpecCropManagement        Specialization = "crop-management"
	SpecSoilHealth            Specialization = "soil-health"
	SpecLivestock             Specialization = "livestock"
	SpecPestControl           Specialization = "pest-control"
	SpecOrganicFarming        Specialization = "organic-farming"
	SpecIrrigation            Specialization = "irrigation"
	SpecAgriculturalEconomics Specialization = "agricultural-economics"
	SpecPlantPathology        Specialization = "plant-pathology"
	SpecOther                 Specialization = "other"
)

// Specializations is the display order used by the directory filters.
var Specializations = []Specialization{
	SpecCropManagement,
	SpecSoilHealth,
	SpecLivestock,
	SpecPestControl,
	SpecOrganicFarming,
	SpecIrrigation,
	SpecAgriculturalEconomics,
	SpecPlantPathology,
	SpecOther,
}

var specializationLabels = map[Specialization]string{
	SpecCropManagement:        "Crop Management",
	SpecSoilHealth:            "Soil Health",
	SpecLivestock:             "Livestock Management",
	SpecPestControl:           "Pest Control",
	SpecOrganicFarming:        "Organic Farming",
	SpecIrrigation:            "Irrigation Systems",
	SpecAgriculturalEconomics: "Agricultural Economics",
	SpecPlantPathology:        "Plant Pathology",
	SpecOther:                 "Other",
}

func (s Specialization) Valid() bool {
	_, ok := specializationLabels[s]
	return ok
}

func (s Specialization) Label() string {
	return specializationLabels[s]
}

type ExperienceBand string

const (
	Experience5To10  ExperienceBand = "5-10"
	Experience10To15 ExperienceBand = "10-15"
	Experience15To20 ExperienceBand = "15-20"
	Experience20Plus ExperienceBand = "20+"
)

var experienceLabels = map[ExperienceBand]string{
	Experience5To10:  "5-10 years",
	Experience10To15: "10-15 years",
	Experience15To20: "15-20 years",
	Experience20Plus: "20+ years",
}

func (e ExperienceBand) Valid() bool {
	_, ok := experienceLabels[e]
	return ok
}

func (e ExperienceBand) Label() string {
	return experienceLabels[e]
}

type AvailabilityBand string

const (
	AvailabilityFullTime AvailabilityBand = "full-time"
	AvailabilityPartTime AvailabilityBand = "part-time"
	AvailabilityFlexible AvailabilityBand = "flexible"
	AvailabilityWeekends AvailabilityBand = "weekends"
)

var availabilityLabels = map[AvailabilityBand]string{
	AvailabilityFullTime: "Full-time (40+ hours/week)",
	AvailabilityPartTime: "Part-time (20-40 hours/week)",
	AvailabilityFlexible: "Flexible (10-20 hours/week)",
	AvailabilityWeekends: "Weekends only",
}

func (a AvailabilityBand) Valid() bool {
	_, ok := availabilityLabels[a]
	return ok
}

func (a AvailabilityBand) Label() string {
	return availabilityLabels[a]
}

type ExpertStatus string

const (
	ExpertPending  ExpertStatus = "pending"
	ExpertApproved ExpertStatus = "approved"
	ExpertRejected ExpertStatus = "rejected"
)

type Expert struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName       string           `gorm:"size:255;not null" json:"full_name"`
	Email          string           `gorm:"size:255;not null" json:"email"`
	Phone          string           `gorm:"size:50;not null" json:"phone"`
	Location       string           `gorm:"size:255;not null" json:"location"`
	Specialization Specialization   `gorm:"size:50;not null;index" json:"specialization"`
	Experience     ExperienceBand   `gorm:"size:10;not null" json:"experience"`
	Education      string           `gorm:"type:text;not null" json:"education"`
	Certifications *string          `gorm:"type:text" json:"certifications"`
	Bio            string           `gorm:"type:text;not null" json:"bio"`
	HourlyRate     float64          `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`
	Availability   AvailabilityBand `gorm:"size:20;not null" json:"availability"`
	Status         ExpertStatus     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Rating         float64          `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	TotalReviews   int              `gorm:"not null;default:0" json:"total_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Expert) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
