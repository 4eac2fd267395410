package leavetypestore

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LeaveType) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.LeaveType, err error)
	GetGlobalByName(name string) (rec *dbmodels.LeaveType, err error)
	GetTenantByName(spaceID, name string) (rec *dbmodels.LeaveType, err error)
	ListGlobal() (list []dbmodels.LeaveType, err error)
	ListBySpace(spaceID string) (list []dbmodels.LeaveType, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveType) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.LeaveType{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GetByID(id string) (rec *dbmodels.LeaveType, err error) {
	rec = &dbmodels.LeaveType{}
	err = i.db.
		Model(&dbmodels.LeaveType{}).
		Preload("Policy").
		Preload("Policy.Rules").
		Where("id = ?", id).
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

func (i impl) GetGlobalByName(name string) (rec *dbmodels.LeaveType, err error) {
	return i.getByName("space_id IS NULL AND name = ?", name)
}

func (i impl) GetTenantByName(spaceID, name string) (rec *dbmodels.LeaveType, err error) {
	return i.getByName("space_id = ? AND name = ?", spaceID, name)
}

func (i impl) getByName(query string, args ...interface{}) (rec *dbmodels.LeaveType, err error) {
	rec = &dbmodels.LeaveType{}
	err = i.db.
		Model(&dbmodels.LeaveType{}).
		Preload("Policy").
		Preload("Policy.Rules").
		Where(query, args...).
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

func (i impl) ListGlobal() (list []dbmodels.LeaveType, err error) {
	err = i.db.
		Model(&dbmodels.LeaveType{}).
		Preload("Policy").
		Preload("Policy.Rules").
		Where("space_id IS NULL").
		Order("name").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListBySpace(spaceID string) (list []dbmodels.LeaveType, err error) {
	err = i.db.
		Model(&dbmodels.LeaveType{}).
		Preload("Policy").
		Preload("Policy.Rules").
		Where("space_id = ?", spaceID).
		Order("name").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
