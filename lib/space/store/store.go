package spacestore

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Space) (id string, err error)
	GetByID(id string) (rec *dbmodels.Space, err error)
	GetActiveIds() (ids []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Space) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.Space, err error) {
	rec = &dbmodels.Space{}
	err = i.db.
		Model(&dbmodels.Space{}).
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

func (i impl) GetActiveIds() (ids []string, err error) {
	err = i.db.
		Model(&dbmodels.Space{}).
		Select("id").
		Where("is_active = ?", true).
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
