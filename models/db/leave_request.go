package dbmodels

import (
	"time"

	"leave-tools-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRequest struct {
	BaseSpaceModel
	UserID      string `gorm:"type:varchar(36);index"`
	User        *SpaceUser
	LeaveTypeID string `gorm:"type:varchar(36)"`
	LeaveType   *LeaveType
	StartDate   time.Time `gorm:"type:date;index"`
	EndDate     time.Time `gorm:"type:date"`
	// DaysRequested - число удерживаемых дней, вычисляется при подаче
	// по политике (календарные дни либо без выходных)
	DaysRequested         int
	Reason                string
	ContactNumber         string                    `gorm:"type:varchar(15)"`
	Status                models.LeaveRequestStatus `gorm:"type:varchar(20);index"`
	RequiresDocumentation bool
	HasDocumentation      bool
	RejectionReason       string
	WorkflowID            *string `gorm:"type:varchar(36)"`
	Workflow              *ApprovalWorkflow
	CurrentLevelID        *string `gorm:"type:varchar(36)"`
	Documents             []FileStorage     `gorm:"foreignKey:RequestID"`
	Escalations           []LeaveEscalation `gorm:"foreignKey:RequestID"`
}

func (r *LeaveRequest) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("request_id = ?", r.ID).Delete(&FileStorage{})
	tx.Clauses(clause.Returning{}).Where("request_id = ?", r.ID).Delete(&LeaveEscalation{})
	return
}

// LeaveEscalation - передача решения по заявке вышестоящему согласующему.
// Одновременно у заявки может быть не более одной нерешённой эскалации
// (частичный уникальный индекс в миграции)
type LeaveEscalation struct {
	BaseSpaceModel
	RequestID       string `gorm:"type:varchar(36);index"`
	EscalatedBy     string `gorm:"type:varchar(36)"`
	EscalatedTo     models.UserRole `gorm:"type:varchar(50)"`
	Reason          string
	Status          models.EscalationStatus `gorm:"type:varchar(20)"`
	ResolutionNotes string
	ResolvedBy      string `gorm:"type:varchar(36)"`
	ResolvedAt      *time.Time
}
