package dbmodels

import "leave-tools-backend/models"

// LeavePolicy - количественные и квалификационные правила типа отпуска,
// один к одному с LeaveType. Инвариант: DefaultDays <= LeaveType.MaxDays,
// при уменьшении MaxDays значение DefaultDays прижимается вниз (не ниже нуля)
type LeavePolicy struct {
	BaseModel
	LeaveTypeID        string `gorm:"type:varchar(36);uniqueIndex"`
	DefaultDays        int
	CarryForwardDays   int
	MinServiceDays     int
	RequiresApproval   bool
	NoticePeriodDays   int
	MaxConsecutiveDays int
	GenderSpecific     models.Gender `gorm:"type:varchar(10)"`
	ExcludeWeekends    bool
	IsActive           bool
	Rules              []PolicyRule `gorm:"foreignKey:PolicyID"`
}

type PolicyRule struct {
	BaseModel
	PolicyID string          `gorm:"type:varchar(36);index"`
	Kind     models.RuleKind `gorm:"type:varchar(50)"`
	Value    string          `gorm:"type:varchar(255)"`
}
