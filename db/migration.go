package db

import (
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := MigrateDB(DB); err != nil {
		return err
	}
	if err := SeedGlobalLeaveTypes(DB); err != nil {
		return err
	}
	log.Info("Миграция прошла успешно")
	return nil
}

// MigrateDB создаёт структуру БД на переданном соединении.
// Вынесена отдельно от AutoMigrateDB для использования в тестах
func MigrateDB(conn *gorm.DB) error {
	for _, migration := range []struct {
		name  string
		model interface{}
	}{
		{"Space", &dbmodels.Space{}},
		{"SpaceUser", &dbmodels.SpaceUser{}},
		{"LeaveType", &dbmodels.LeaveType{}},
		{"LeavePolicy", &dbmodels.LeavePolicy{}},
		{"PolicyRule", &dbmodels.PolicyRule{}},
		{"LeaveBalance", &dbmodels.LeaveBalance{}},
		{"LeaveRequest", &dbmodels.LeaveRequest{}},
		{"LeaveEscalation", &dbmodels.LeaveEscalation{}},
		{"ApprovalWorkflow", &dbmodels.ApprovalWorkflow{}},
		{"ApprovalLevel", &dbmodels.ApprovalLevel{}},
		{"FileStorage", &dbmodels.FileStorage{}},
	} {
		if err := conn.AutoMigrate(migration.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %s", migration.name)
		}
	}

	// Частичные уникальные индексы: имя глобального типа уникально среди
	// глобальных, имя типа спейса уникально внутри спейса, у заявки не
	// более одной нерешённой эскалации
	for _, stmt := range []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_types_global_name ON leave_types (name) WHERE space_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_types_space_name ON leave_types (name, space_id) WHERE space_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_escalations_active ON leave_escalations (request_id) WHERE status = 'PENDING'`,
	} {
		if err := conn.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "ошибка создания индекса")
		}
	}
	return nil
}
