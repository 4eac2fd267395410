package approvalhandler

import (
	"context"
	"testing"
	"time"

	leaverequesthandler "leave-tools-backend/lib/leave-request"
	notificationhandler "leave-tools-backend/lib/notification"
	"leave-tools-backend/lib/utils/testdb"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSpaceID = "space-1"
	testUserID  = "user-1"
	managerID   = "mgr-1"
	adminID     = "adm-1"
	dateLayout  = "2006-01-02"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn := testdb.OpenSeeded(t)
	for _, user := range []dbmodels.SpaceUser{
		{BaseModel: dbmodels.BaseModel{ID: testUserID}, FirstName: "Иван", LastName: "Иванов", Email: "ivanov@example.com", Role: models.SpaceUserRole},
		{BaseModel: dbmodels.BaseModel{ID: managerID}, FirstName: "Пётр", LastName: "Петров", Email: "petrov@example.com", Role: models.SpaceManagerRole},
		{BaseModel: dbmodels.BaseModel{ID: adminID}, FirstName: "Анна", LastName: "Сидорова", Email: "sidorova@example.com", Role: models.SpaceAdminRole},
	} {
		user.IsActive = true
		user.SpaceID = testSpaceID
		user.HireDate = time.Now().AddDate(-2, 0, 0)
		require.NoError(t, conn.Create(&user).Error)
	}
	return conn
}

func createPendingRequest(t *testing.T, conn *gorm.DB, levels []models.UserRole) (requestID, leaveTypeID string, days int) {
	t.Helper()
	rec := dbmodels.LeaveType{}
	err := conn.Preload("Policy").
		Where("space_id IS NULL AND name = ?", "Отгул").
		First(&rec).
		Error
	require.NoError(t, err)

	workflowLevels := make([]dbmodels.ApprovalLevel, 0, len(levels))
	for idx, role := range levels {
		workflowLevels = append(workflowLevels, dbmodels.ApprovalLevel{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpaceID},
			LevelOrder:     idx + 1,
			ApproverRole:   role,
		})
	}
	err = conn.Create(&dbmodels.ApprovalWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpaceID},
		LeaveTypeID:    rec.ID,
		Name:           "Цепочка отгулов",
		MaxDays:        100,
		IsActive:       true,
		Levels:         workflowLevels,
	}).Error
	require.NoError(t, err)

	start := time.Now().AddDate(0, 0, 10)
	view, err := leaverequesthandler.NewHandlerWithDB(conn).Create(context.Background(), testSpaceID, testUserID, leaveapimodels.LeaveRequestCreateData{
		LeaveTypeID: rec.ID,
		StartDate:   start.Format(dateLayout),
		EndDate:     start.AddDate(0, 0, 2).Format(dateLayout),
		Reason:      "личные обстоятельства",
	})
	require.NoError(t, err)
	return view.ID, rec.ID, view.DaysRequested
}

func balance(t *testing.T, conn *gorm.DB, leaveTypeID string) dbmodels.LeaveBalance {
	t.Helper()
	rec := dbmodels.LeaveBalance{}
	err := conn.
		Where("space_id = ? AND user_id = ? AND leave_type_id = ?", testSpaceID, testUserID, leaveTypeID).
		First(&rec).
		Error
	require.NoError(t, err)
	return rec
}

type eventRecorder struct {
	events []models.LeaveEventCode
}

func (r *eventRecorder) LeaveRequestEvent(code models.LeaveEventCode, _ *dbmodels.LeaveRequest) {
	r.events = append(r.events, code)
}

func requestStatus(t *testing.T, conn *gorm.DB, requestID string) models.LeaveRequestStatus {
	t.Helper()
	rec := dbmodels.LeaveRequest{}
	require.NoError(t, conn.Where("id = ?", requestID).First(&rec).Error)
	return rec.Status
}

func TestApprove(t *testing.T) {
	t.Run(`согласование списывает удержанные дни`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, leaveTypeID, days := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Approve(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusApproved, requestStatus(t, conn, requestID))

		rec := balance(t, conn, leaveTypeID)
		require.Equal(t, days, rec.UsedDays)
		require.Equal(t, 0, rec.PendingDays)
	})

	t.Run(`согласованную заявку нельзя отменить`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Approve(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.NoError(t, err)

		err = leaverequesthandler.NewHandlerWithDB(conn).Cancel(testSpaceID, testUserID, requestID)
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run(`повторное решение проигрывает первому`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, leaveTypeID, days := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Approve(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.NoError(t, err)
		err = handler.Reject(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.DecisionData{RejectionReason: "нет"})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)

		rec := balance(t, conn, leaveTypeID)
		require.Equal(t, days, rec.UsedDays)
	})

	t.Run(`промежуточный уровень не закрывает заявку`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, leaveTypeID, days := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole, models.SpaceAdminRole})

		err := handler.Approve(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusPending, requestStatus(t, conn, requestID))
		rec := balance(t, conn, leaveTypeID)
		require.Equal(t, days, rec.PendingDays)
		require.Equal(t, 0, rec.UsedDays)

		err = handler.Approve(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.DecisionData{})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusApproved, requestStatus(t, conn, requestID))
	})

	t.Run(`решение по собственной заявке запрещено`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Approve(testSpaceID, requestID, testUserID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.ErrorIs(t, err, models.ErrNotAllowedApprover)
	})

	t.Run(`роль вне уровня не может решать`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Approve(testSpaceID, requestID, "user-2", models.SpaceUserRole, leaveapimodels.DecisionData{})
		require.ErrorIs(t, err, models.ErrNotAllowedApprover)
	})
}

func TestReject(t *testing.T) {
	t.Run(`отклонение требует причину`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Reject(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{})
		require.ErrorIs(t, err, models.ErrMissingRejectionReason)
	})

	t.Run(`отклонение возвращает удержанные дни`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, leaveTypeID, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Reject(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{RejectionReason: "производственная необходимость"})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusRejected, requestStatus(t, conn, requestID))

		rec := balance(t, conn, leaveTypeID)
		require.Equal(t, 0, rec.PendingDays)
		require.Equal(t, 0, rec.UsedDays)
	})
}

func TestEscalate(t *testing.T) {
	t.Run(`эскалация и решение администратора`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, leaveTypeID, days := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Escalate(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.EscalationData{Reason: "конфликт графика"})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusEscalated, requestStatus(t, conn, requestID))

		// дни остаются удержанными
		rec := balance(t, conn, leaveTypeID)
		require.Equal(t, days, rec.PendingDays)

		// решение без комментария не принимается
		err = handler.Approve(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.DecisionData{})
		require.ErrorIs(t, err, models.ErrMissingResolutionNotes)

		err = handler.Approve(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.DecisionData{ResolutionNotes: "согласовано в виде исключения"})
		require.NoError(t, err)
		require.Equal(t, models.LeaveRequestStatusApproved, requestStatus(t, conn, requestID))

		escalation := dbmodels.LeaveEscalation{}
		require.NoError(t, conn.Where("request_id = ?", requestID).First(&escalation).Error)
		require.Equal(t, models.EscalationStatusResolved, escalation.Status)
		require.Equal(t, adminID, escalation.ResolvedBy)
		require.NotNil(t, escalation.ResolvedAt)

		rec = balance(t, conn, leaveTypeID)
		require.Equal(t, days, rec.UsedDays)
		require.Equal(t, 0, rec.PendingDays)
	})

	t.Run(`решение по эскалации уведомляет о её закрытии`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		recorder := &eventRecorder{}
		notificationhandler.Instance = recorder
		defer func() { notificationhandler.Instance = nil }()

		err := handler.Escalate(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.EscalationData{Reason: "конфликт графика"})
		require.NoError(t, err)
		err = handler.Approve(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.DecisionData{ResolutionNotes: "согласовано в виде исключения"})
		require.NoError(t, err)

		require.Equal(t, []models.LeaveEventCode{
			models.EventLeaveRequestEscalated,
			models.EventLeaveEscalationResolved,
			models.EventLeaveRequestApproved,
		}, recorder.events)
	})

	t.Run(`эскалированную заявку менеджер не решает`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Escalate(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.EscalationData{Reason: "конфликт графика"})
		require.NoError(t, err)

		err = handler.Approve(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.DecisionData{ResolutionNotes: "ок"})
		require.ErrorIs(t, err, models.ErrNotAllowedApprover)
	})

	t.Run(`повторная эскалация запрещена`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceManagerRole})

		err := handler.Escalate(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.EscalationData{Reason: "конфликт графика"})
		require.NoError(t, err)
		err = handler.Escalate(testSpaceID, requestID, managerID, models.SpaceManagerRole, leaveapimodels.EscalationData{Reason: "ещё раз"})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run(`администратор не эскалирует`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		requestID, _, _ := createPendingRequest(t, conn, []models.UserRole{models.SpaceAdminRole})

		err := handler.Escalate(testSpaceID, requestID, adminID, models.SpaceAdminRole, leaveapimodels.EscalationData{Reason: "выше некуда"})
		require.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func TestWorkflows(t *testing.T) {
	t.Run(`создание и удаление цепочки`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		rec := dbmodels.LeaveType{}
		require.NoError(t, conn.Where("space_id IS NULL AND name = ?", "Отгул").First(&rec).Error)

		id, err := handler.CreateWorkflow(testSpaceID, leaveapimodels.WorkflowData{
			LeaveTypeID: rec.ID,
			Name:        "Цепочка отгулов",
			MinDays:     0,
			MaxDays:     3,
			IsActive:    true,
			Levels: []leaveapimodels.LevelData{
				{LevelOrder: 1, ApproverRole: models.SpaceManagerRole},
				{LevelOrder: 2, ApproverRole: models.SpaceAdminRole},
			},
		})
		require.NoError(t, err)

		list, err := handler.ListWorkflows(testSpaceID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Len(t, list[0].Levels, 2)

		require.NoError(t, handler.DeleteWorkflow(testSpaceID, id))
		list, err = handler.ListWorkflows(testSpaceID)
		require.NoError(t, err)
		require.Len(t, list, 0)
	})

	t.Run(`цепочка по несуществующему типу не создаётся`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)

		_, err := handler.CreateWorkflow(testSpaceID, leaveapimodels.WorkflowData{
			LeaveTypeID: "missing-id",
			Name:        "Цепочка",
			MaxDays:     3,
			IsActive:    true,
			Levels:      []leaveapimodels.LevelData{{LevelOrder: 1, ApproverRole: models.SpaceManagerRole}},
		})
		require.ErrorIs(t, err, models.ErrInvalidLeaveType)
	})
}
