package workflowstore

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalWorkflow) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.ApprovalWorkflow, err error)
	ListBySpace(spaceID string) (list []dbmodels.ApprovalWorkflow, err error)
	// FindForRequest подбирает активную цепочку по типу отпуска и
	// длительности заявки (диапазон MinDays..MaxDays включительно)
	FindForRequest(spaceID, leaveTypeID string, days int) (rec *dbmodels.ApprovalWorkflow, err error)
	Delete(spaceID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalWorkflow) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (rec *dbmodels.ApprovalWorkflow, err error) {
	rec = &dbmodels.ApprovalWorkflow{}
	err = i.db.
		Model(&dbmodels.ApprovalWorkflow{}).
		Preload("Levels", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("level_order")
		}).
		Where("space_id = ? AND id = ?", spaceID, id).
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

func (i impl) ListBySpace(spaceID string) (list []dbmodels.ApprovalWorkflow, err error) {
	err = i.db.
		Model(&dbmodels.ApprovalWorkflow{}).
		Preload("Levels", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("level_order")
		}).
		Where("space_id = ?", spaceID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) FindForRequest(spaceID, leaveTypeID string, days int) (rec *dbmodels.ApprovalWorkflow, err error) {
	rec = &dbmodels.ApprovalWorkflow{}
	err = i.db.
		Model(&dbmodels.ApprovalWorkflow{}).
		Preload("Levels", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("level_order")
		}).
		Where("space_id = ? AND leave_type_id = ? AND is_active = ?", spaceID, leaveTypeID, true).
		Where("min_days <= ? AND max_days >= ?", days, days).
		Order("min_days").
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

func (i impl) Delete(spaceID, id string) error {
	err := i.db.
		Where("workflow_id = ?", id).
		Delete(&dbmodels.ApprovalLevel{}).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка удаления уровней цепочки")
	}
	return i.db.
		Where("space_id = ? AND id = ?", spaceID, id).
		Delete(&dbmodels.ApprovalWorkflow{}).
		Error
}
