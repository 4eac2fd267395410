package escalationstore

import (
	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LeaveEscalation) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	// GetActiveByRequest - незакрытая эскалация заявки. На заявку
	// одновременно может существовать не больше одной
	GetActiveByRequest(spaceID, requestID string) (rec *dbmodels.LeaveEscalation, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveEscalation) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.LeaveEscalation{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GetActiveByRequest(spaceID, requestID string) (rec *dbmodels.LeaveEscalation, err error) {
	rec = &dbmodels.LeaveEscalation{}
	err = i.db.
		Model(&dbmodels.LeaveEscalation{}).
		Where("space_id = ? AND request_id = ? AND status = ?", spaceID, requestID, models.EscalationStatusPending).
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
