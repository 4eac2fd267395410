package db

import (
	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type defaultLeaveType struct {
	leaveType dbmodels.LeaveType
	policy    dbmodels.LeavePolicy
}

// Глобальные типы отпусков по умолчанию. Спейс наследует их, пока не
// создаст собственную настройку с тем же именем
var defaultLeaveTypes = []defaultLeaveType{
	{
		leaveType: dbmodels.LeaveType{Name: "Ежегодный отпуск", Description: "Оплачиваемый ежегодный отпуск", MaxDays: 30, IsPaid: true, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 21, CarryForwardDays: 5, MinServiceDays: 90, RequiresApproval: true, NoticePeriodDays: 14, MaxConsecutiveDays: 21, IsActive: true},
	},
	{
		leaveType: dbmodels.LeaveType{Name: "Больничный", Description: "Отсутствие по болезни", RequiresDocumentation: true, MaxDays: 15, IsPaid: true, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 12, RequiresApproval: true, MaxConsecutiveDays: 15, IsActive: true},
	},
	{
		leaveType: dbmodels.LeaveType{Name: "Отгул", Description: "Краткосрочное отсутствие по личным обстоятельствам", MaxDays: 12, IsPaid: true, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 12, RequiresApproval: true, NoticePeriodDays: 1, MaxConsecutiveDays: 3, IsActive: true},
	},
	{
		leaveType: dbmodels.LeaveType{Name: "Отпуск по беременности и родам", Description: "Отпуск по беременности и родам", RequiresDocumentation: true, MaxDays: 140, IsPaid: true, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 140, MinServiceDays: 180, RequiresApproval: true, NoticePeriodDays: 30, MaxConsecutiveDays: 140, GenderSpecific: models.GenderFemale, IsActive: true},
	},
	{
		leaveType: dbmodels.LeaveType{Name: "Отпуск отца", Description: "Отпуск при рождении ребёнка", RequiresDocumentation: true, MaxDays: 7, IsPaid: true, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 7, MinServiceDays: 180, RequiresApproval: true, NoticePeriodDays: 7, MaxConsecutiveDays: 7, GenderSpecific: models.GenderMale, IsActive: true},
	},
	{
		leaveType: dbmodels.LeaveType{Name: "Отпуск без содержания", Description: "Неоплачиваемый отпуск", MaxDays: 30, IsActive: true},
		policy:    dbmodels.LeavePolicy{DefaultDays: 30, RequiresApproval: true, NoticePeriodDays: 7, MaxConsecutiveDays: 30, IsActive: true},
	},
}

// SeedGlobalLeaveTypes - идемпотентное заполнение глобальных типов
// отпусков и их политик. Выполняется на этапе миграции, а не при каждом
// старте процесса; уникальный частичный индекс по имени глобального типа
// страхует от гонки при одновременном запуске нескольких экземпляров
func SeedGlobalLeaveTypes(conn *gorm.DB) error {
	log.Info("Предзаполнение глобальных типов отпусков")
	for _, seed := range defaultLeaveTypes {
		err := conn.Transaction(func(tx *gorm.DB) error {
			var count int64
			err := tx.Model(&dbmodels.LeaveType{}).
				Where("space_id IS NULL AND name = ?", seed.leaveType.Name).
				Count(&count).
				Error
			if err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			rec := seed.leaveType
			if err = tx.Create(&rec).Error; err != nil {
				return err
			}
			policy := seed.policy
			policy.LeaveTypeID = rec.ID
			return tx.Create(&policy).Error
		})
		if err != nil {
			return errors.Wrapf(err, "ошибка создания глобального типа отпуска %v", seed.leaveType.Name)
		}
	}
	log.Info("Предзаполнение глобальных типов отпусков завершено")
	return nil
}
