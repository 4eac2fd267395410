package dbmodels

import (
	"fmt"
	"time"

	"leave-tools-backend/models"
	spaceapimodels "leave-tools-backend/models/api/space"
)

type SpaceUser struct {
	BaseModel
	Password    string `gorm:"type:varchar(128)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255)"`
	IsActive    bool
	PhoneNumber string `gorm:"type:varchar(15)"`
	SpaceID     string
	Role        models.UserRole `gorm:"type:varchar(50)"`
	Gender      models.Gender   `gorm:"type:varchar(10)"`
	HireDate    time.Time       `gorm:"type:date"`
	LastLogin   time.Time
}

func (r SpaceUser) ToModel() spaceapimodels.SpaceUser {
	return spaceapimodels.SpaceUser{
		ID: r.ID,
		SpaceUserCommonData: spaceapimodels.SpaceUserCommonData{
			Email:       r.Email,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			PhoneNumber: r.PhoneNumber,
			IsAdmin:     r.Role.IsSpaceAdmin(),
			SpaceID:     r.SpaceID,
			Role:        r.Role.ToHuman(),
			Gender:      r.Gender.ToHuman(),
		},
	}
}

func (r SpaceUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// ServiceDays - стаж сотрудника в днях на указанную дату
func (r SpaceUser) ServiceDays(at time.Time) int {
	if r.HireDate.IsZero() || at.Before(r.HireDate) {
		return 0
	}
	return int(at.Sub(r.HireDate).Hours() / 24)
}
