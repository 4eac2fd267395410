package spacehandler

import (
	"leave-tools-backend/db"
	spacestore "leave-tools-backend/lib/space/store"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	authutils "leave-tools-backend/lib/utils/auth-utils"
	"leave-tools-backend/models"
	authapimodels "leave-tools-backend/models/api/auth"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	RegisterSpace(data authapimodels.RegisterSpaceData) (spaceID string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db: db.DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) RegisterSpace(data authapimodels.RegisterSpaceData) (spaceID string, err error) {
	logger := log.WithField("organization", data.OrganizationName)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		store := spacestore.NewInstance(tx)
		usersStore := spaceusersstore.NewInstance(tx)
		exist, err := usersStore.ExistByEmail(data.AdminEmail)
		if err != nil {
			return err
		}
		if exist {
			return errors.New("сотрудник с такой почтой уже существует")
		}
		spaceID, err = store.Create(dbmodels.Space{
			OrganizationName: data.OrganizationName,
			DirectorName:     data.DirectorName,
			IsActive:         true,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания спейса")
		}
		_, err = usersStore.Create(dbmodels.SpaceUser{
			Password:  authutils.GetMD5Hash(data.AdminPassword),
			FirstName: data.AdminFirstName,
			LastName:  data.AdminLastName,
			Email:     data.AdminEmail,
			IsActive:  true,
			SpaceID:   spaceID,
			Role:      models.SpaceAdminRole,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания администратора спейса")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("space_id", spaceID).
		Info("Зарегистрирован спейс")
	return spaceID, nil
}
