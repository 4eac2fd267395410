package dbmodels

// LeaveType - категория отсутствия. Глобальная (SpaceID = NULL) или
// определённая внутри спейса. Запись спейса с тем же Name затеняет
// глобальную при построении эффективного набора типов.
// Уникальность имени обеспечивается частичными индексами в миграции.
type LeaveType struct {
	BaseModel
	SpaceID               *string `gorm:"type:varchar(36);index"`
	Space                 *Space
	Name                  string `gorm:"type:varchar(150)"`
	Description           string
	RequiresDocumentation bool
	MaxDays               int
	IsPaid                bool
	IsActive              bool
	Policy                *LeavePolicy `gorm:"foreignKey:LeaveTypeID"`
}

func (t LeaveType) IsGlobal() bool {
	return t.SpaceID == nil
}
