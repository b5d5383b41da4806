package model

import (
	"time"
)

type VisitorType string // kind of visit

const (
	VisitorTypeBusiness VisitorType = "Business" // visiting on behalf of a company
	VisitorTypePersonal VisitorType = "Personal" // private visit
)

// Valid reports whether t is one of the two accepted values. Matching is case-sensitive.
func (t VisitorType) Valid() bool {
	return t == VisitorTypeBusiness || t == VisitorTypePersonal
}

// Column widths, shared by validation and the schema tags below.
const (
	MaxIdentificationNumberLen = 20
	MaxIdentificationTypeLen   = 10
	MaxNamesLen                = 100
	MaxRepresentedCompanyLen   = 100
)

type Visitor struct {
	ID                   uint        `gorm:"primaryKey;autoIncrement" json:"id"`                                                                                    // visitor ID
	IdentificationNumber string      `gorm:"size:20;not null;uniqueIndex:idx_visitors_identification_number" json:"identification_number"`                          // document number
	IdentificationType   string      `gorm:"size:10;not null" json:"identification_type"`                                                                           // document kind (CC, passport, ...)
	FirstNames           string      `gorm:"size:100;not null" json:"first_names"`                                                                                  // first names
	LastNames            string      `gorm:"size:100;not null" json:"last_names"`                                                                                   // last names
	VisitorType          VisitorType `gorm:"type:varchar(10);not null;check:chk_visitors_visitor_type,visitor_type IN ('Business','Personal')" json:"visitor_type"` // Business or Personal
	RepresentedCompany   *string     `gorm:"size:100" json:"represented_company"`                                                                                   // company, required for Business
	RegisteredAt         time.Time   `gorm:"not null;autoCreateTime" json:"registered_at"`                                                                          // registration time (UTC)
}

func (Visitor) TableName() string {
	return "visitors"
}
