package notificationhandler

import (
	"fmt"

	"leave-tools-backend/config"
	"leave-tools-backend/db"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	"leave-tools-backend/lib/smtp"
	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Provider interface {
	// LeaveRequestEvent уведомляет автора заявки о событии по ней.
	// Ошибки отправки логируются и не возвращаются: уведомления не
	// должны ломать основную операцию
	LeaveRequestEvent(code models.LeaveEventCode, request *dbmodels.LeaveRequest)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db: db.DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) LeaveRequestEvent(code models.LeaveEventCode, request *dbmodels.LeaveRequest) {
	logger := log.
		WithField("request_id", request.ID).
		WithField("event", code)
	tpl, exist := models.LeaveEventMap[code]
	if !exist {
		logger.Warn("неизвестное событие по заявке")
		return
	}
	typeName := request.LeaveTypeID
	if request.LeaveType != nil {
		typeName = request.LeaveType.Name
	}
	message := fmt.Sprintf(tpl.Msg,
		typeName,
		request.StartDate.Format(dateLayout),
		request.EndDate.Format(dateLayout),
		request.DaysRequested,
	)
	logger.
		WithField("user_id", request.UserID).
		Info(tpl.Name)
	if smtp.Instance == nil {
		return
	}
	user := request.User
	if user == nil {
		rec, err := spaceusersstore.NewInstance(i.db).GetByID(request.UserID)
		if err != nil || rec == nil {
			logger.WithError(err).Error("не найден адресат уведомления")
			return
		}
		user = rec
	}
	if user.Email == "" {
		return
	}
	err := smtp.Instance.SendEMail(config.Conf.Smtp.SenderEmail, user.Email, message, tpl.Title)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления")
	}
}
