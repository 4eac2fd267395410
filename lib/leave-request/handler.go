package leaverequesthandler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"leave-tools-backend/db"
	workflowstore "leave-tools-backend/lib/approval/workflow-store"
	filestorage "leave-tools-backend/lib/file-storage"
	leavebalancehandler "leave-tools-backend/lib/leave-balance"
	leaverequeststore "leave-tools-backend/lib/leave-request/store"
	leavetypeprovider "leave-tools-backend/lib/leave-type"
	notificationhandler "leave-tools-backend/lib/notification"
	spaceusersstore "leave-tools-backend/lib/space/users/store"
	"leave-tools-backend/lib/utils/helpers"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, spaceID, userID string, data leaveapimodels.LeaveRequestCreateData) (leaveapimodels.LeaveRequestView, error)
	Cancel(spaceID, userID, requestID string) error
	GetByID(spaceID, requestID string) (leaveapimodels.LeaveRequestView, error)
	ListMy(spaceID, userID string, filter leaveapimodels.RequestFilter) ([]leaveapimodels.LeaveRequestView, error)
	ListForApprover(spaceID string, approverRole models.UserRole, filter leaveapimodels.RequestFilter) ([]leaveapimodels.LeaveRequestView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithDB(db.DB)
}

func NewHandlerWithDB(database *gorm.DB) Provider {
	return impl{
		db: database,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) getLogger(spaceID, userID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
}

// Create проводит заявку через цепочку проверок политики и удерживает
// дни на балансе. Порядок проверок фиксированный: тип и политика,
// доступность сотруднику, корректность дат, срок подачи, лимит дней
// подряд, правила политики, пересечение периодов, наличие цепочки
// согласования. Любая ошибка до удержания оставляет баланс нетронутым
func (i impl) Create(ctx context.Context, spaceID, userID string, data leaveapimodels.LeaveRequestCreateData) (leaveapimodels.LeaveRequestView, error) {
	logger := i.getLogger(spaceID, userID)
	leaveType, policy, err := leavetypeprovider.NewHandlerWithDB(i.db).GetEffective(spaceID, data.LeaveTypeID)
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	user, err := spaceusersstore.NewInstance(i.db).GetByID(userID)
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	if user == nil || user.SpaceID != spaceID {
		return leaveapimodels.LeaveRequestView{}, errors.New("сотрудник не найден")
	}
	start, end, err := data.Period()
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	start, end = helpers.ToDate(start), helpers.ToDate(end)
	if err = i.checkEligibility(user, policy, start); err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	today := helpers.ToDate(time.Now())
	if start.Before(today) || end.Before(start) {
		return leaveapimodels.LeaveRequestView{}, models.ErrInvalidDateRange
	}
	if policy.NoticePeriodDays > 0 {
		earliest := today.AddDate(0, 0, policy.NoticePeriodDays)
		if start.Before(earliest) {
			return leaveapimodels.LeaveRequestView{}, models.NoticePeriodError{
				NoticeDays:    policy.NoticePeriodDays,
				EarliestStart: earliest,
			}
		}
	}
	days := helpers.CalculateLeaveDays(start, end, policy.ExcludeWeekends)
	if days == 0 {
		return leaveapimodels.LeaveRequestView{}, models.ErrInvalidDateRange
	}
	if policy.MaxConsecutiveDays > 0 && days > policy.MaxConsecutiveDays {
		return leaveapimodels.LeaveRequestView{}, models.MaxConsecutiveError{
			Max:       policy.MaxConsecutiveDays,
			Requested: days,
		}
	}
	if err = i.checkPolicyRules(logger, spaceID, userID, leaveType.ID, policy.Rules, start); err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	overlap, err := leaverequeststore.NewInstance(i.db).HasOverlap(spaceID, userID, start, end, "")
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	if overlap {
		return leaveapimodels.LeaveRequestView{}, models.ErrOverlappingRequest
	}
	// цепочка подбирается до удержания дней: при её отсутствии заявка
	// не создаётся и баланс не меняется
	var workflow *dbmodels.ApprovalWorkflow
	if policy.RequiresApproval {
		workflow, err = workflowstore.NewInstance(i.db).FindForRequest(spaceID, leaveType.ID, days)
		if err != nil {
			return leaveapimodels.LeaveRequestView{}, err
		}
		if workflow == nil || len(workflow.Levels) == 0 {
			return leaveapimodels.LeaveRequestView{}, models.ErrNoWorkflowConfigured
		}
	}
	var requestID string
	err = i.db.Transaction(func(tx *gorm.DB) error {
		balances := leavebalancehandler.NewHandlerWithDB(tx)
		if err := balances.Reserve(spaceID, userID, leaveType, start.Year(), days); err != nil {
			return err
		}
		rec := dbmodels.LeaveRequest{
			BaseSpaceModel:        dbmodels.BaseSpaceModel{SpaceID: spaceID},
			UserID:                userID,
			LeaveTypeID:           leaveType.ID,
			StartDate:             start,
			EndDate:               end,
			DaysRequested:         days,
			Reason:                data.Reason,
			ContactNumber:         data.ContactNumber,
			Status:                models.LeaveRequestStatusPending,
			RequiresDocumentation: leaveType.RequiresDocumentation,
		}
		if workflow != nil {
			rec.WorkflowID = &workflow.ID
			rec.CurrentLevelID = &workflow.Levels[0].ID
		} else {
			// политика без согласования: заявка одобряется сразу
			rec.Status = models.LeaveRequestStatusApproved
		}
		requestID, err = leaverequeststore.NewInstance(tx).Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания заявки")
		}
		if workflow == nil {
			return balances.Commit(spaceID, userID, leaveType.ID, start.Year(), days)
		}
		return nil
	})
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	// документы грузятся в S3 вне транзакции
	i.uploadDocuments(ctx, logger, spaceID, requestID, data.Documents)
	rec, err := leaverequeststore.NewInstance(i.db).GetByID(spaceID, requestID)
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	logger.
		WithField("request_id", requestID).
		WithField("days", days).
		Info("Подана заявка на отпуск")
	if notificationhandler.Instance != nil {
		event := models.EventLeaveRequestSubmitted
		if rec.Status == models.LeaveRequestStatusApproved {
			event = models.EventLeaveRequestApproved
		}
		notificationhandler.Instance.LeaveRequestEvent(event, rec)
	}
	return leaveapimodels.LeaveRequestConvert(*rec), nil
}

func (i impl) checkEligibility(user *dbmodels.SpaceUser, policy *dbmodels.LeavePolicy, start time.Time) error {
	if policy.GenderSpecific != models.GenderAny && policy.GenderSpecific != user.Gender {
		return models.ErrNotEligible
	}
	if policy.MinServiceDays > 0 && user.ServiceDays(start) < policy.MinServiceDays {
		return models.ErrNotEligible
	}
	return nil
}

func (i impl) checkPolicyRules(logger *log.Entry, spaceID, userID, leaveTypeID string, rules []dbmodels.PolicyRule, start time.Time) error {
	for _, rule := range rules {
		switch rule.Kind {
		case models.RuleKindMaxRequestsPerYear:
			limit, err := strconv.Atoi(strings.TrimSpace(rule.Value))
			if err != nil || limit <= 0 {
				logger.WithField("rule_value", rule.Value).Warn("некорректный лимит заявок в год, правило пропущено")
				continue
			}
			count, err := leaverequeststore.NewInstance(i.db).CountByUserTypeYear(spaceID, userID, leaveTypeID, start.Year())
			if err != nil {
				return err
			}
			if count >= int64(limit) {
				return models.RuleViolationError{
					Kind:   rule.Kind,
					Detail: "исчерпан лимит заявок в год (" + strconv.Itoa(limit) + ")",
				}
			}
		case models.RuleKindBlackoutMonths:
			for _, part := range strings.Split(rule.Value, ",") {
				month, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil || month < 1 || month > 12 {
					continue
				}
				if int(start.Month()) == month {
					return models.RuleViolationError{
						Kind:   rule.Kind,
						Detail: "отпуск не может начинаться в закрытый месяц " + strconv.Itoa(month),
					}
				}
			}
		default:
			// произвольные правила движком не проверяются
			logger.WithField("rule_kind", rule.Kind).Debug("правило политики не поддержано движком")
		}
	}
	return nil
}

func (i impl) uploadDocuments(ctx context.Context, logger *log.Entry, spaceID, requestID string, documents []leaveapimodels.DocumentData) {
	if len(documents) == 0 || filestorage.Instance == nil {
		return
	}
	uploaded := 0
	for _, doc := range documents {
		_, err := filestorage.Instance.UploadLeaveDoc(ctx, spaceID, requestID, doc.FileName, doc.FileType, doc.FileData)
		if err != nil {
			logger.WithError(err).
				WithField("file_name", doc.FileName).
				Error("ошибка загрузки документа заявки")
			continue
		}
		uploaded++
	}
	if uploaded == 0 {
		return
	}
	err := leaverequeststore.NewInstance(i.db).Update(requestID, map[string]interface{}{"has_documentation": true})
	if err != nil {
		logger.WithError(err).Error("ошибка отметки документов заявки")
	}
}

// Cancel отменяет собственную заявку сотрудника. Допускается только из
// статуса PENDING, удержанные дни возвращаются на баланс
func (i impl) Cancel(spaceID, userID, requestID string) error {
	var rec *dbmodels.LeaveRequest
	err := i.db.Transaction(func(tx *gorm.DB) error {
		store := leaverequeststore.NewInstance(tx)
		var err error
		rec, err = store.GetByID(spaceID, requestID)
		if err != nil {
			return err
		}
		if rec == nil {
			return errors.New("заявка не найдена")
		}
		if rec.UserID != userID {
			return models.ErrNotRequestOwner
		}
		if rec.Status != models.LeaveRequestStatusPending {
			return models.ErrInvalidStateTransition
		}
		err = leavebalancehandler.NewHandlerWithDB(tx).
			Release(spaceID, rec.UserID, rec.LeaveTypeID, rec.StartDate.Year(), rec.DaysRequested)
		if err != nil {
			return err
		}
		// условие на статус в WHERE: конкурентное решение согласующего
		// по этой же заявке не даст отменить уже закрытую
		ok, err := store.UpdateFromStatus(rec.ID, models.LeaveRequestStatusPending, map[string]interface{}{
			"status":           models.LeaveRequestStatusCancelled,
			"current_level_id": nil,
		})
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrInvalidStateTransition
		}
		return nil
	})
	if err != nil {
		return err
	}
	i.getLogger(spaceID, userID).
		WithField("request_id", requestID).
		Info("Заявка отменена сотрудником")
	rec.Status = models.LeaveRequestStatusCancelled
	if notificationhandler.Instance != nil {
		notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveRequestCancelled, rec)
	}
	return nil
}

func (i impl) GetByID(spaceID, requestID string) (leaveapimodels.LeaveRequestView, error) {
	rec, err := leaverequeststore.NewInstance(i.db).GetByID(spaceID, requestID)
	if err != nil {
		return leaveapimodels.LeaveRequestView{}, err
	}
	if rec == nil {
		return leaveapimodels.LeaveRequestView{}, errors.New("заявка не найдена")
	}
	return leaveapimodels.LeaveRequestConvert(*rec), nil
}

func (i impl) ListMy(spaceID, userID string, filter leaveapimodels.RequestFilter) ([]leaveapimodels.LeaveRequestView, error) {
	page, limit := filter.GetPage()
	list, err := leaverequeststore.NewInstance(i.db).
		ListByUser(spaceID, userID, filter.Status, filter.Year, page, limit)
	if err != nil {
		return nil, err
	}
	result := make([]leaveapimodels.LeaveRequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, leaveapimodels.LeaveRequestConvert(rec))
	}
	return result, nil
}

func (i impl) ListForApprover(spaceID string, approverRole models.UserRole, filter leaveapimodels.RequestFilter) ([]leaveapimodels.LeaveRequestView, error) {
	statuses := []models.LeaveRequestStatus{
		models.LeaveRequestStatusPending,
		models.LeaveRequestStatusEscalated,
	}
	if filter.Status != "" {
		statuses = []models.LeaveRequestStatus{filter.Status}
	}
	page, limit := filter.GetPage()
	list, err := leaverequeststore.NewInstance(i.db).
		ListForApprover(spaceID, statuses, approverRole, page, limit)
	if err != nil {
		return nil, err
	}
	result := make([]leaveapimodels.LeaveRequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, leaveapimodels.LeaveRequestConvert(rec))
	}
	return result, nil
}
