package spaceapimodels

import (
	"strings"
	"time"

	"leave-tools-backend/models"

	"github.com/pkg/errors"
)

type SpaceUserCommonData struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
	SpaceID     string `json:"space_id"`
	Role        string `json:"role"`
	Gender      string `json:"gender"`
}

type SpaceUser struct {
	SpaceUserCommonData
	ID string `json:"id"`
}

type CreateUser struct {
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone_number"`
	Role        models.UserRole `json:"role"`
	Gender      models.Gender   `json:"gender"`
	HireDate    time.Time       `json:"hire_date"`
}

func (r CreateUser) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("не указана почта")
	}
	if strings.TrimSpace(r.Password) == "" {
		return errors.New("не указан пароль")
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("не указано имя сотрудника")
	}
	if r.Role == "" {
		return errors.New("не указана роль")
	}
	if !r.Gender.IsValid() {
		return errors.New("некорректное значение пола")
	}
	return nil
}

type UpdateUser struct {
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone_number"`
	Password    string          `json:"password"`
	Role        models.UserRole `json:"role"`
	IsActive    *bool           `json:"is_active"`
}
