package models

type UserRole string

const (
	SpaceAdminRole   UserRole = "SPACE_ADMIN_ROLE"
	SpaceManagerRole UserRole = "SPACE_MANAGER_ROLE"
	SpaceUserRole    UserRole = "SPACE_USER_ROLE"
)

var roleHumanName = map[UserRole]string{
	SpaceAdminRole:   "Администратор",
	SpaceManagerRole: "Руководитель",
	SpaceUserRole:    "Сотрудник",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsSpaceAdmin() bool {
	return r == SpaceAdminRole
}

const SystemUser = "Система"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	// GenderAny - ограничения по полу нет
	GenderAny Gender = ""
)

var genderHumanName = map[Gender]string{
	GenderMale:   "Мужской",
	GenderFemale: "Женский",
}

func (g Gender) ToHuman() string {
	if human, exist := genderHumanName[g]; exist {
		return human
	}
	return string(g)
}

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderAny
}
