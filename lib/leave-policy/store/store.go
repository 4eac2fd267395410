package leavepolicystore

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LeavePolicy) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	GetByLeaveTypeID(leaveTypeID string) (rec *dbmodels.LeavePolicy, err error)
	ReplaceRules(policyID string, rules []dbmodels.PolicyRule) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeavePolicy) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.LeavePolicy{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GetByLeaveTypeID(leaveTypeID string) (rec *dbmodels.LeavePolicy, err error) {
	rec = &dbmodels.LeavePolicy{}
	err = i.db.
		Model(&dbmodels.LeavePolicy{}).
		Preload("Rules").
		Where("leave_type_id = ?", leaveTypeID).
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

func (i impl) ReplaceRules(policyID string, rules []dbmodels.PolicyRule) error {
	err := i.db.
		Where("policy_id = ?", policyID).
		Delete(&dbmodels.PolicyRule{}).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка удаления правил политики")
	}
	for idx := range rules {
		rules[idx].PolicyID = policyID
	}
	if len(rules) == 0 {
		return nil
	}
	return i.db.Create(&rules).Error
}
