package dbmodels

// LeaveBalance - баланс дней сотрудника по типу отпуска за год.
// Создаётся лениво при первом обращении, никогда не удаляется.
// Инвариант после каждой мутации:
// UsedDays >= 0, PendingDays >= 0, AvailableDays() >= 0
type LeaveBalance struct {
	BaseSpaceModel
	UserID           string `gorm:"type:varchar(36);index;uniqueIndex:idx_balance_user_type_year"`
	LeaveTypeID      string `gorm:"type:varchar(36);uniqueIndex:idx_balance_user_type_year"`
	LeaveType        *LeaveType
	Year             int `gorm:"uniqueIndex:idx_balance_user_type_year"`
	TotalDays        int
	UsedDays         int
	PendingDays      int
	CarryForwardDays int
}

func (b LeaveBalance) AvailableDays() int {
	return b.TotalDays + b.CarryForwardDays - b.UsedDays - b.PendingDays
}
