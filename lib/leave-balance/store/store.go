package leavebalancestore

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.LeaveBalance) (id string, err error)
	// Reserve атомарно удерживает дни. Условие доступности входит в
	// WHERE, поэтому два конкурентных удержания не могут наблюдать один
	// и тот же остаток: проигравший получает ok=false
	Reserve(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error)
	// Commit списывает удержанные дни, ok=false при нехватке удержания
	Commit(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error)
	// Release возвращает удержанные дни, ok=false при нехватке удержания
	Release(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error)
	Get(spaceID, userID, leaveTypeID string, year int) (rec *dbmodels.LeaveBalance, err error)
	ListByUserYear(spaceID, userID string, year int) (list []dbmodels.LeaveBalance, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.LeaveBalance) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Reserve(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error) {
	tx := i.balanceRow(spaceID, userID, leaveTypeID, year).
		Where("total_days + carry_forward_days - used_days - pending_days >= ?", days).
		Update("pending_days", gorm.Expr("pending_days + ?", days))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Commit(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error) {
	tx := i.balanceRow(spaceID, userID, leaveTypeID, year).
		Where("pending_days >= ?", days).
		Updates(map[string]interface{}{
			"pending_days": gorm.Expr("pending_days - ?", days),
			"used_days":    gorm.Expr("used_days + ?", days),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Release(spaceID, userID, leaveTypeID string, year, days int) (ok bool, err error) {
	tx := i.balanceRow(spaceID, userID, leaveTypeID, year).
		Where("pending_days >= ?", days).
		Update("pending_days", gorm.Expr("pending_days - ?", days))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) balanceRow(spaceID, userID, leaveTypeID string, year int) *gorm.DB {
	return i.db.
		Model(&dbmodels.LeaveBalance{}).
		Where("space_id = ? AND user_id = ? AND leave_type_id = ? AND year = ?", spaceID, userID, leaveTypeID, year)
}

func (i impl) Get(spaceID, userID, leaveTypeID string, year int) (rec *dbmodels.LeaveBalance, err error) {
	rec = &dbmodels.LeaveBalance{}
	err = i.db.
		Model(&dbmodels.LeaveBalance{}).
		Where("space_id = ? AND user_id = ? AND leave_type_id = ? AND year = ?", spaceID, userID, leaveTypeID, year).
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

func (i impl) ListByUserYear(spaceID, userID string, year int) (list []dbmodels.LeaveBalance, err error) {
	err = i.db.
		Model(&dbmodels.LeaveBalance{}).
		Preload("LeaveType").
		Where("space_id = ? AND user_id = ? AND year = ?", spaceID, userID, year).
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}
