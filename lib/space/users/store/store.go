package spaceusersstore

import (
	"strings"

	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.SpaceUser) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	GetList(spaceID string, page, limit int) (userList []dbmodels.SpaceUser, err error)
	GetListByRole(spaceID string, role models.UserRole) (userList []dbmodels.SpaceUser, err error)
	ExistByEmail(email string) (bool, error)
	FindByEmail(email string) (rec *dbmodels.SpaceUser, err error)
	GetByID(userID string) (rec *dbmodels.SpaceUser, err error)
	GetIDsBySpace(spaceID string) (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SpaceUser) (string, error) {
	err := i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.SpaceUser{}).
		Where("id = ?", userID).
		Updates(updMap).
		Error
}

func (i impl) GetList(spaceID string, page, limit int) (userList []dbmodels.SpaceUser, err error) {
	tx := i.db.Model(dbmodels.SpaceUser{})
	i.setPage(tx, page, limit)
	err = tx.
		Where("space_id = ?", spaceID).
		Find(&userList).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return userList, nil
}

func (i impl) GetListByRole(spaceID string, role models.UserRole) (userList []dbmodels.SpaceUser, err error) {
	err = i.db.
		Model(dbmodels.SpaceUser{}).
		Where("space_id = ? AND role = ? AND is_active = ?", spaceID, role, true).
		Find(&userList).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return userList, nil
}

func (i impl) ExistByEmail(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.SpaceUser{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) FindByEmail(email string) (rec *dbmodels.SpaceUser, err error) {
	rec = &dbmodels.SpaceUser{}
	err = i.db.
		Model(&dbmodels.SpaceUser{}).
		Where("lower(email) = ?", strings.ToLower(email)).
		First(rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.SpaceUser, err error) {
	rec = &dbmodels.SpaceUser{}
	err = i.db.
		Model(&dbmodels.SpaceUser{}).
		Where("id = ?", userID).
		First(rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetIDsBySpace(spaceID string) (ids []string, err error) {
	err = i.db.
		Model(&dbmodels.SpaceUser{}).
		Select("id").
		Where("space_id = ? AND is_active = ?", spaceID, true).
		Find(&ids).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	if page > 0 && limit > 0 {
		tx.Limit(limit).Offset((page - 1) * limit)
	}
}
