package authapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginData) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("не указана почта")
	}
	if strings.TrimSpace(r.Password) == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterSpaceData struct {
	OrganizationName string `json:"organization_name"`
	DirectorName     string `json:"director_name"`
	AdminEmail       string `json:"admin_email"`
	AdminPassword    string `json:"admin_password"`
	AdminFirstName   string `json:"admin_first_name"`
	AdminLastName    string `json:"admin_last_name"`
}

func (r RegisterSpaceData) Validate() error {
	if strings.TrimSpace(r.OrganizationName) == "" {
		return errors.New("не указано название организации")
	}
	if strings.TrimSpace(r.AdminEmail) == "" {
		return errors.New("не указана почта администратора")
	}
	if strings.TrimSpace(r.AdminPassword) == "" {
		return errors.New("не указан пароль администратора")
	}
	return nil
}
