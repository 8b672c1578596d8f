package models

import "gorm.io/gorm"

// Report statuses.
const (
	ReportStatusNew       = "New"
	ReportStatusConfirmed = "Confirmed"
)

// Report is a complaint filed by one room member against the other. Reporter
// and target connection ids are always recorded; the user ids are empty for
// anonymous sessions, in which case reputation and ban logic do not apply.
type Report struct {
	gorm.Model

	ReporterConnID string `gorm:"type:text;not null"`
	TargetConnID   string `gorm:"type:text;not null"`
	ReporterUserID string `gorm:"type:text;index"`
	TargetUserID   string `gorm:"type:text;index"`
	RoomID         string `gorm:"type:text;not null"`
	Reason         string `gorm:"type:text;not null"`
	Severity       string `gorm:"type:text"`
	Status         string `gorm:"type:text;not null"`
}
