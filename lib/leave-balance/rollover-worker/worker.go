package rolloverworker

import (
	"context"
	"time"

	"leave-tools-backend/config"
	"leave-tools-backend/db"
	leavebalancehandler "leave-tools-backend/lib/leave-balance"
	spacestore "leave-tools-backend/lib/space/store"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	baseworker "leave-tools-backend/lib/utils/base-worker"
	"leave-tools-backend/lib/utils/helpers"

	"gorm.io/gorm"
)

// Воркер переноса балансов: в начале нового года создаёт сотрудникам
// балансы текущего года с переносом остатка в пределах политики.
// Операция идемпотентна, поэтому воркер может запускаться как угодно
// часто
func StartWorker(ctx context.Context) {
	if config.Conf.Rollover.Enabled != nil && !*config.Conf.Rollover.Enabled {
		return
	}
	worker := baseworker.NewInstance(
		"rollover-worker",
		1*time.Minute,
		time.Duration(config.Conf.Rollover.RunIntervalMin)*time.Minute,
	)
	worker.Run(ctx, func(ctx context.Context) {
		runRollover(ctx, worker)
	})
}

func runRollover(ctx context.Context, worker *baseworker.BaseImpl) {
	logger := worker.GetLogger()
	year := time.Now().Year()
	spaceIds, err := spacestore.NewInstance(db.DB).GetActiveIds()
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка спейсов")
		return
	}
	for _, spaceID := range spaceIds {
		if helpers.IsContextDone(ctx) {
			return
		}
		userIds, err := spaceusersstore.NewInstance(db.DB).GetIDsBySpace(spaceID)
		if err != nil {
			logger.WithError(err).
				WithField("space_id", spaceID).
				Error("ошибка получения сотрудников спейса")
			continue
		}
		for _, userID := range userIds {
			if helpers.IsContextDone(ctx) {
				return
			}
			err = db.DB.Transaction(func(tx *gorm.DB) error {
				return leavebalancehandler.NewHandlerWithDB(tx).RolloverYear(spaceID, userID, year)
			})
			if err != nil {
				logger.WithError(err).
					WithField("space_id", spaceID).
					WithField("user_id", userID).
					Error("ошибка переноса балансов сотрудника")
			}
		}
	}
}
