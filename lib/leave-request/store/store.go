package leaverequeststore

import (
	"time"

	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LeaveRequest) (id string, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateFromStatus применяет изменения, только если заявка всё ещё
	// в ожидаемом статусе. При конкурентном решении по одной заявке
	// проигравший получает ok=false
	UpdateFromStatus(id string, from models.LeaveRequestStatus, updMap map[string]interface{}) (ok bool, err error)
	GetByID(spaceID, id string) (rec *dbmodels.LeaveRequest, err error)
	ListByUser(spaceID, userID string, status models.LeaveRequestStatus, year, page, limit int) (list []dbmodels.LeaveRequest, err error)
	// ListForApprover - очередь согласующего: эскалированные заявки
	// первыми, затем заявки на уровне с ролью согласующего, далее по
	// убыванию даты создания
	ListForApprover(spaceID string, statuses []models.LeaveRequestStatus, approverRole models.UserRole, page, limit int) (list []dbmodels.LeaveRequest, err error)
	// HasOverlap - есть ли у сотрудника активная заявка,
	// пересекающаяся с периодом
	HasOverlap(spaceID, userID string, start, end time.Time, excludeID string) (bool, error)
	CountByUserTypeYear(spaceID, userID, leaveTypeID string, year int) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveRequest) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) UpdateFromStatus(id string, from models.LeaveRequestStatus, updMap map[string]interface{}) (ok bool, err error) {
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) GetByID(spaceID, id string) (rec *dbmodels.LeaveRequest, err error) {
	rec = &dbmodels.LeaveRequest{}
	err = i.db.
		Model(&dbmodels.LeaveRequest{}).
		Preload("User").
		Preload("LeaveType").
		Preload("Workflow").
		Preload("Workflow.Levels", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("level_order")
		}).
		Preload("Documents").
		Preload("Escalations").
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

func (i impl) ListByUser(spaceID, userID string, status models.LeaveRequestStatus, year, page, limit int) (list []dbmodels.LeaveRequest, err error) {
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Preload("LeaveType").
		Preload("Documents").
		Where("space_id = ? AND user_id = ?", spaceID, userID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if year != 0 {
		yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		tx = tx.Where("start_date >= ? AND start_date < ?", yearStart, yearStart.AddDate(1, 0, 0))
	}
	i.setPage(tx, page, limit)
	err = tx.
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) ListForApprover(spaceID string, statuses []models.LeaveRequestStatus, approverRole models.UserRole, page, limit int) (list []dbmodels.LeaveRequest, err error) {
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Preload("User").
		Preload("LeaveType").
		Preload("Escalations").
		Where("space_id = ? AND status IN ?", spaceID, statuses)
	i.setPage(tx, page, limit)
	err = tx.
		Order("CASE WHEN status = 'ESCALATED' THEN 0 ELSE 1 END").
		Order(gorm.Expr("CASE WHEN current_level_id IN (SELECT id FROM approval_levels WHERE approver_role = ?) THEN 0 ELSE 1 END", approverRole)).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) HasOverlap(spaceID, userID string, start, end time.Time, excludeID string) (bool, error) {
	var count int64
	tx := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Where("status IN ?", models.ActiveLeaveRequestStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	err := tx.Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) CountByUserTypeYear(spaceID, userID, leaveTypeID string, year int) (int64, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	var count int64
	err := i.db.
		Model(&dbmodels.LeaveRequest{}).
		Where("space_id = ? AND user_id = ? AND leave_type_id = ?", spaceID, userID, leaveTypeID).
		Where("status IN ?", models.ActiveLeaveRequestStatuses).
		Where("start_date >= ? AND start_date < ?", yearStart, yearStart.AddDate(1, 0, 0)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	if limit <= 0 {
		return
	}
	if page < 1 {
		page = 1
	}
	tx.Offset((page - 1) * limit).Limit(limit)
}
