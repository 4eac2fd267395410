package dbmodels

import "leave-tools-backend/models"

// ApprovalWorkflow - цепочка согласования заявок. Подбирается по типу
// отпуска и диапазону запрошенных дней [MinDays, MaxDays].
// Используется только для маршрутизации, решения хранятся в заявке
type ApprovalWorkflow struct {
	BaseSpaceModel
	LeaveTypeID string `gorm:"type:varchar(36);index"`
	Name        string `gorm:"type:varchar(255)"`
	MinDays     int
	MaxDays     int
	IsActive    bool
	Levels      []ApprovalLevel `gorm:"foreignKey:WorkflowID"`
}

type ApprovalLevel struct {
	BaseSpaceModel
	WorkflowID   string `gorm:"type:varchar(36);index"`
	LevelOrder   int
	ApproverRole models.UserRole `gorm:"type:varchar(50)"`
}
