package spaceusershandler

import (
	"leave-tools-backend/db"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	authutils "leave-tools-backend/lib/utils/auth-utils"
	spaceapimodels "leave-tools-backend/models/api/space"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
)

type Provider interface {
	GetByID(userID string) (user spaceapimodels.SpaceUser, err error)
	CreateUser(spaceID string, request spaceapimodels.CreateUser) (id string, err error)
	UpdateUser(spaceID, userID string, request spaceapimodels.UpdateUser) error
	GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store spaceusersstore.Provider
}

func (i impl) GetByID(userID string) (user spaceapimodels.SpaceUser, err error) {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return spaceapimodels.SpaceUser{}, err
	}
	if rec == nil {
		return spaceapimodels.SpaceUser{}, errors.New("сотрудник не найден")
	}
	return rec.ToModel(), nil
}

func (i impl) CreateUser(spaceID string, request spaceapimodels.CreateUser) (id string, err error) {
	exist, err := i.store.ExistByEmail(request.Email)
	if err != nil {
		return "", err
	}
	if exist {
		return "", errors.New("сотрудник с такой почтой уже существует")
	}
	rec := dbmodels.SpaceUser{
		Password:    authutils.GetMD5Hash(request.Password),
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		Email:       request.Email,
		IsActive:    true,
		PhoneNumber: request.PhoneNumber,
		SpaceID:     spaceID,
		Role:        request.Role,
		Gender:      request.Gender,
		HireDate:    request.HireDate,
	}
	return i.store.Create(rec)
}

func (i impl) UpdateUser(spaceID, userID string, request spaceapimodels.UpdateUser) error {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		return err
	}
	if rec == nil || rec.SpaceID != spaceID {
		return errors.New("сотрудник не найден")
	}
	updMap := map[string]interface{}{}
	if request.FirstName != "" {
		updMap["first_name"] = request.FirstName
	}
	if request.LastName != "" {
		updMap["last_name"] = request.LastName
	}
	if request.PhoneNumber != "" {
		updMap["phone_number"] = request.PhoneNumber
	}
	if request.Password != "" {
		updMap["password"] = authutils.GetMD5Hash(request.Password)
	}
	if request.Role != "" {
		updMap["role"] = request.Role
	}
	if request.IsActive != nil {
		updMap["is_active"] = *request.IsActive
	}
	if len(updMap) == 0 {
		return nil
	}
	return i.store.Update(userID, updMap)
}

func (i impl) GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error) {
	list, err := i.store.GetList(spaceID, page, limit)
	if err != nil {
		return nil, err
	}
	usersList = make([]spaceapimodels.SpaceUser, 0, len(list))
	for _, rec := range list {
		usersList = append(usersList, rec.ToModel())
	}
	return usersList, nil
}
