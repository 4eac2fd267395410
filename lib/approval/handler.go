package approvalhandler

import (
	"sort"
	"strings"
	"time"

	"leave-tools-backend/db"
	escalationstore "leave-tools-backend/lib/approval/escalation-store"
	workflowstore "leave-tools-backend/lib/approval/workflow-store"
	leavebalancehandler "leave-tools-backend/lib/leave-balance"
	leaverequeststore "leave-tools-backend/lib/leave-request/store"
	leavetypeprovider "leave-tools-backend/lib/leave-type"
	notificationhandler "leave-tools-backend/lib/notification"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Approve - решение согласующего. На промежуточном уровне цепочки
	// заявка переходит на следующий уровень, на последнем списываются
	// удержанные дни
	Approve(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.DecisionData) error
	Reject(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.DecisionData) error
	// Escalate передаёт решение администратору спейса, дни остаются
	// удержанными
	Escalate(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.EscalationData) error
	CreateWorkflow(spaceID string, data leaveapimodels.WorkflowData) (id string, err error)
	ListWorkflows(spaceID string) ([]leaveapimodels.WorkflowView, error)
	DeleteWorkflow(spaceID, workflowID string) error
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

func (i impl) getLogger(spaceID, requestID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("request_id", requestID)
}

func (i impl) Approve(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.DecisionData) error {
	logger := i.getLogger(spaceID, requestID).WithField("actor_id", actorID)
	var rec *dbmodels.LeaveRequest
	advanced := false
	resolved := false
	err := i.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = i.loadDecidable(tx, spaceID, requestID, actorID, actorRole)
		if err != nil {
			return err
		}
		store := leaverequeststore.NewInstance(tx)
		if rec.Status == models.LeaveRequestStatusEscalated {
			if err = i.resolveEscalation(tx, spaceID, rec, actorID, data.ResolutionNotes); err != nil {
				return err
			}
			resolved = true
		} else if next := i.nextLevel(rec); next != nil {
			// промежуточный уровень: заявка остаётся на согласовании
			advanced = true
			return i.transition(store, rec, map[string]interface{}{"current_level_id": next.ID})
		}
		err = leavebalancehandler.NewHandlerWithDB(tx).
			Commit(spaceID, rec.UserID, rec.LeaveTypeID, rec.StartDate.Year(), rec.DaysRequested)
		if err != nil {
			return err
		}
		return i.transition(store, rec, map[string]interface{}{
			"status":           models.LeaveRequestStatusApproved,
			"current_level_id": nil,
		})
	})
	if err != nil {
		return err
	}
	if advanced {
		logger.Info("Заявка передана на следующий уровень согласования")
		return nil
	}
	logger.Info("Заявка согласована")
	if notificationhandler.Instance != nil {
		rec.Status = models.LeaveRequestStatusApproved
		if resolved {
			notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveEscalationResolved, rec)
		}
		notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveRequestApproved, rec)
	}
	return nil
}

func (i impl) Reject(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.DecisionData) error {
	if strings.TrimSpace(data.RejectionReason) == "" {
		return models.ErrMissingRejectionReason
	}
	logger := i.getLogger(spaceID, requestID).WithField("actor_id", actorID)
	var rec *dbmodels.LeaveRequest
	resolved := false
	err := i.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = i.loadDecidable(tx, spaceID, requestID, actorID, actorRole)
		if err != nil {
			return err
		}
		if rec.Status == models.LeaveRequestStatusEscalated {
			if err = i.resolveEscalation(tx, spaceID, rec, actorID, data.ResolutionNotes); err != nil {
				return err
			}
			resolved = true
		}
		err = leavebalancehandler.NewHandlerWithDB(tx).
			Release(spaceID, rec.UserID, rec.LeaveTypeID, rec.StartDate.Year(), rec.DaysRequested)
		if err != nil {
			return err
		}
		return i.transition(leaverequeststore.NewInstance(tx), rec, map[string]interface{}{
			"status":           models.LeaveRequestStatusRejected,
			"rejection_reason": data.RejectionReason,
			"current_level_id": nil,
		})
	})
	if err != nil {
		return err
	}
	logger.Info("Заявка отклонена")
	if notificationhandler.Instance != nil {
		rec.Status = models.LeaveRequestStatusRejected
		rec.RejectionReason = data.RejectionReason
		if resolved {
			notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveEscalationResolved, rec)
		}
		notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveRequestRejected, rec)
	}
	return nil
}

func (i impl) Escalate(spaceID, requestID, actorID string, actorRole models.UserRole, data leaveapimodels.EscalationData) error {
	logger := i.getLogger(spaceID, requestID).WithField("actor_id", actorID)
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
		if rec.Status != models.LeaveRequestStatusPending {
			return models.ErrInvalidStateTransition
		}
		if rec.UserID == actorID {
			return models.ErrNotAllowedApprover
		}
		if !i.isLevelApprover(rec, actorRole) {
			return models.ErrNotAllowedApprover
		}
		if actorRole.IsSpaceAdmin() {
			// выше администратора спейса эскалировать некому
			return models.ErrInvalidStateTransition
		}
		_, err = escalationstore.NewInstance(tx).Create(dbmodels.LeaveEscalation{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
			RequestID:      rec.ID,
			EscalatedBy:    actorID,
			EscalatedTo:    models.SpaceAdminRole,
			Reason:         data.Reason,
			Status:         models.EscalationStatusPending,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания эскалации")
		}
		return i.transition(store, rec, map[string]interface{}{"status": models.LeaveRequestStatusEscalated})
	})
	if err != nil {
		return err
	}
	logger.Info("Заявка эскалирована")
	if notificationhandler.Instance != nil {
		rec.Status = models.LeaveRequestStatusEscalated
		notificationhandler.Instance.LeaveRequestEvent(models.EventLeaveRequestEscalated, rec)
	}
	return nil
}

// transition меняет заявку с условием на прежний статус в WHERE:
// из двух конкурентных решений по одной заявке второе не пройдёт
func (i impl) transition(store leaverequeststore.Provider, rec *dbmodels.LeaveRequest, updMap map[string]interface{}) error {
	ok, err := store.UpdateFromStatus(rec.ID, rec.Status, updMap)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrInvalidStateTransition
	}
	return nil
}

// loadDecidable возвращает заявку, если по ней допускается решение
// данного согласующего
func (i impl) loadDecidable(tx *gorm.DB, spaceID, requestID, actorID string, actorRole models.UserRole) (*dbmodels.LeaveRequest, error) {
	rec, err := leaverequeststore.NewInstance(tx).GetByID(spaceID, requestID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("заявка не найдена")
	}
	// повторное решение по уже закрытой заявке проигрывает первому
	if !rec.Status.IsDecidable() {
		return nil, models.ErrInvalidStateTransition
	}
	if rec.UserID == actorID {
		return nil, models.ErrNotAllowedApprover
	}
	if rec.Status == models.LeaveRequestStatusEscalated {
		escalation, err := escalationstore.NewInstance(tx).GetActiveByRequest(spaceID, rec.ID)
		if err != nil {
			return nil, err
		}
		if escalation == nil {
			return nil, models.ErrInvalidStateTransition
		}
		if escalation.EscalatedTo != actorRole && !actorRole.IsSpaceAdmin() {
			return nil, models.ErrNotAllowedApprover
		}
		return rec, nil
	}
	if !i.isLevelApprover(rec, actorRole) {
		return nil, models.ErrNotAllowedApprover
	}
	return rec, nil
}

func (i impl) isLevelApprover(rec *dbmodels.LeaveRequest, actorRole models.UserRole) bool {
	if actorRole.IsSpaceAdmin() {
		return true
	}
	level := i.currentLevel(rec)
	return level != nil && level.ApproverRole == actorRole
}

func (i impl) currentLevel(rec *dbmodels.LeaveRequest) *dbmodels.ApprovalLevel {
	if rec.Workflow == nil || rec.CurrentLevelID == nil {
		return nil
	}
	for idx := range rec.Workflow.Levels {
		if rec.Workflow.Levels[idx].ID == *rec.CurrentLevelID {
			return &rec.Workflow.Levels[idx]
		}
	}
	return nil
}

func (i impl) nextLevel(rec *dbmodels.LeaveRequest) *dbmodels.ApprovalLevel {
	current := i.currentLevel(rec)
	if current == nil || rec.Workflow == nil {
		return nil
	}
	for idx := range rec.Workflow.Levels {
		if rec.Workflow.Levels[idx].LevelOrder > current.LevelOrder {
			return &rec.Workflow.Levels[idx]
		}
	}
	return nil
}

func (i impl) resolveEscalation(tx *gorm.DB, spaceID string, rec *dbmodels.LeaveRequest, actorID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return models.ErrMissingResolutionNotes
	}
	store := escalationstore.NewInstance(tx)
	escalation, err := store.GetActiveByRequest(spaceID, rec.ID)
	if err != nil {
		return err
	}
	if escalation == nil {
		return models.ErrInvalidStateTransition
	}
	now := time.Now()
	return store.Update(escalation.ID, map[string]interface{}{
		"status":           models.EscalationStatusResolved,
		"resolution_notes": notes,
		"resolved_by":      actorID,
		"resolved_at":      &now,
	})
}

func (i impl) CreateWorkflow(spaceID string, data leaveapimodels.WorkflowData) (id string, err error) {
	leaveType, _, err := leavetypeprovider.NewHandlerWithDB(i.db).GetEffective(spaceID, data.LeaveTypeID)
	if err != nil {
		return "", err
	}
	levels := make([]dbmodels.ApprovalLevel, 0, len(data.Levels))
	for _, level := range data.Levels {
		levels = append(levels, dbmodels.ApprovalLevel{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
			LevelOrder:     level.LevelOrder,
			ApproverRole:   level.ApproverRole,
		})
	}
	sort.Slice(levels, func(a, b int) bool {
		return levels[a].LevelOrder < levels[b].LevelOrder
	})
	id, err = workflowstore.NewInstance(i.db).Create(dbmodels.ApprovalWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: spaceID},
		LeaveTypeID:    leaveType.ID,
		Name:           data.Name,
		MinDays:        data.MinDays,
		MaxDays:        data.MaxDays,
		IsActive:       data.IsActive,
		Levels:         levels,
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания цепочки согласования")
	}
	log.WithField("space_id", spaceID).
		WithField("workflow_id", id).
		Info("Создана цепочка согласования")
	return id, nil
}

func (i impl) ListWorkflows(spaceID string) ([]leaveapimodels.WorkflowView, error) {
	list, err := workflowstore.NewInstance(i.db).ListBySpace(spaceID)
	if err != nil {
		return nil, err
	}
	result := make([]leaveapimodels.WorkflowView, 0, len(list))
	for _, rec := range list {
		result = append(result, leaveapimodels.WorkflowConvert(rec))
	}
	return result, nil
}

func (i impl) DeleteWorkflow(spaceID, workflowID string) error {
	rec, err := workflowstore.NewInstance(i.db).GetByID(spaceID, workflowID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("цепочка согласования не найдена")
	}
	return workflowstore.NewInstance(i.db).Delete(spaceID, workflowID)
}
