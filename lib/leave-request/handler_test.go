package leaverequesthandler

import (
	"context"
	"errors"
	"testing"
	"time"

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
	dateLayout  = "2006-01-02"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn := testdb.OpenSeeded(t)
	err := conn.Create(&dbmodels.SpaceUser{
		BaseModel: dbmodels.BaseModel{ID: testUserID},
		FirstName: "Иван",
		LastName:  "Иванов",
		Email:     "ivanov@example.com",
		IsActive:  true,
		SpaceID:   testSpaceID,
		Role:      models.SpaceUserRole,
		Gender:    models.GenderMale,
		HireDate:  time.Now().AddDate(-2, 0, 0),
	}).Error
	require.NoError(t, err)
	return conn
}

func globalType(t *testing.T, conn *gorm.DB, name string) *dbmodels.LeaveType {
	t.Helper()
	rec := dbmodels.LeaveType{}
	err := conn.Preload("Policy").
		Where("space_id IS NULL AND name = ?", name).
		First(&rec).
		Error
	require.NoError(t, err)
	return &rec
}

func createWorkflow(t *testing.T, conn *gorm.DB, leaveTypeID string) {
	t.Helper()
	err := conn.Create(&dbmodels.ApprovalWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpaceID},
		LeaveTypeID:    leaveTypeID,
		Name:           "Базовая цепочка",
		MinDays:        0,
		MaxDays:        100,
		IsActive:       true,
		Levels: []dbmodels.ApprovalLevel{
			{BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpaceID}, LevelOrder: 1, ApproverRole: models.SpaceManagerRole},
		},
	}).Error
	require.NoError(t, err)
}

func requestData(leaveTypeID string, startIn, days int) leaveapimodels.LeaveRequestCreateData {
	start := time.Now().AddDate(0, 0, startIn)
	end := start.AddDate(0, 0, days-1)
	return leaveapimodels.LeaveRequestCreateData{
		LeaveTypeID: leaveTypeID,
		StartDate:   start.Format(dateLayout),
		EndDate:     end.Format(dateLayout),
		Reason:      "личные обстоятельства",
	}
}

func pendingDays(t *testing.T, conn *gorm.DB, leaveTypeID string) int {
	t.Helper()
	rec := dbmodels.LeaveBalance{}
	err := conn.
		Where("space_id = ? AND user_id = ? AND leave_type_id = ?", testSpaceID, testUserID, leaveTypeID).
		First(&rec).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return rec.PendingDays
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run(`успешная подача с удержанием дней`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		view, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.NoError(t, err)
		require.Equal(t, string(models.LeaveRequestStatusPending), view.Status)
		require.Equal(t, 3, view.DaysRequested)
		require.Equal(t, 3, pendingDays(t, conn, dayOff.ID))
	})

	t.Run(`некорректные даты`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, -2, 3))
		require.ErrorIs(t, err, models.ErrInvalidDateRange)

		data := requestData(dayOff.ID, 10, 3)
		data.EndDate = time.Now().AddDate(0, 0, 8).Format(dateLayout)
		_, err = handler.Create(ctx, testSpaceID, testUserID, data)
		require.ErrorIs(t, err, models.ErrInvalidDateRange)
		require.Equal(t, 0, pendingDays(t, conn, dayOff.ID))
	})

	t.Run(`нарушение срока подачи`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		annual := globalType(t, conn, "Ежегодный отпуск")
		createWorkflow(t, conn, annual.ID)

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(annual.ID, 5, 5))
		noticeErr := models.NoticePeriodError{}
		require.ErrorAs(t, err, &noticeErr)
		require.Equal(t, 14, noticeErr.NoticeDays)
		require.Equal(t, 0, pendingDays(t, conn, annual.ID))
	})

	t.Run(`превышение дней подряд`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 4))
		maxErr := models.MaxConsecutiveError{}
		require.ErrorAs(t, err, &maxErr)
		require.Equal(t, 3, maxErr.Max)
		require.Equal(t, 4, maxErr.Requested)
	})

	t.Run(`гендерный тип недоступен`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		maternity := globalType(t, conn, "Отпуск по беременности и родам")
		createWorkflow(t, conn, maternity.ID)

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(maternity.ID, 40, 30))
		require.ErrorIs(t, err, models.ErrNotEligible)
	})

	t.Run(`недостаточный стаж`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		annual := globalType(t, conn, "Ежегодный отпуск")
		createWorkflow(t, conn, annual.ID)
		err := conn.Model(&dbmodels.SpaceUser{}).
			Where("id = ?", testUserID).
			Update("hire_date", time.Now().AddDate(0, 0, -10)).
			Error
		require.NoError(t, err)

		_, err = handler.Create(ctx, testSpaceID, testUserID, requestData(annual.ID, 20, 5))
		require.ErrorIs(t, err, models.ErrNotEligible)
	})

	t.Run(`пересечение с активной заявкой`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.NoError(t, err)
		_, err = handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 11, 2))
		require.ErrorIs(t, err, models.ErrOverlappingRequest)
		require.Equal(t, 3, pendingDays(t, conn, dayOff.ID))
	})

	t.Run(`нет цепочки согласования`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")

		_, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.ErrorIs(t, err, models.ErrNoWorkflowConfigured)
		require.Equal(t, 0, pendingDays(t, conn, dayOff.ID))
	})

	t.Run(`лимит заявок в год`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)
		err := conn.Create(&dbmodels.PolicyRule{
			PolicyID: dayOff.Policy.ID,
			Kind:     models.RuleKindMaxRequestsPerYear,
			Value:    "1",
		}).Error
		require.NoError(t, err)

		// обе заявки в одном календарном году
		firstStart := time.Date(time.Now().Year()+1, time.March, 2, 0, 0, 0, 0, time.UTC)
		secondStart := firstStart.AddDate(0, 1, 0)
		first := leaveapimodels.LeaveRequestCreateData{
			LeaveTypeID: dayOff.ID,
			StartDate:   firstStart.Format(dateLayout),
			EndDate:     firstStart.AddDate(0, 0, 1).Format(dateLayout),
		}
		second := leaveapimodels.LeaveRequestCreateData{
			LeaveTypeID: dayOff.ID,
			StartDate:   secondStart.Format(dateLayout),
			EndDate:     secondStart.AddDate(0, 0, 1).Format(dateLayout),
		}
		_, err = handler.Create(ctx, testSpaceID, testUserID, first)
		require.NoError(t, err)
		_, err = handler.Create(ctx, testSpaceID, testUserID, second)
		ruleErr := models.RuleViolationError{}
		require.ErrorAs(t, err, &ruleErr)
		require.Equal(t, models.RuleKindMaxRequestsPerYear, ruleErr.Kind)
	})

	t.Run(`закрытый месяц`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)
		start := time.Now().AddDate(0, 0, 10)
		err := conn.Create(&dbmodels.PolicyRule{
			PolicyID: dayOff.Policy.ID,
			Kind:     models.RuleKindBlackoutMonths,
			Value:    start.Format("1"),
		}).Error
		require.NoError(t, err)

		_, err = handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 2))
		ruleErr := models.RuleViolationError{}
		require.ErrorAs(t, err, &ruleErr)
		require.Equal(t, models.RuleKindBlackoutMonths, ruleErr.Kind)
	})
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run(`тип документа возвращается в заявке`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		view, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.NoError(t, err)
		err = conn.Create(&dbmodels.FileStorage{
			BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpaceID},
			RequestID:      view.ID,
			FileName:       "справка.pdf",
			FileType:       dbmodels.LeaveDocumentFileType,
			ContentType:    "application/pdf",
			FileSize:       4,
		}).Error
		require.NoError(t, err)

		got, err := handler.GetByID(testSpaceID, view.ID)
		require.NoError(t, err)
		require.Len(t, got.Documents, 1)
		require.Equal(t, "справка.pdf", got.Documents[0].FileName)
		require.Equal(t, "application/pdf", got.Documents[0].FileType)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run(`отмена возвращает удержанные дни`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		view, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.NoError(t, err)
		require.NoError(t, handler.Cancel(testSpaceID, testUserID, view.ID))
		require.Equal(t, 0, pendingDays(t, conn, dayOff.ID))

		cancelled, err := handler.GetByID(testSpaceID, view.ID)
		require.NoError(t, err)
		require.Equal(t, string(models.LeaveRequestStatusCancelled), cancelled.Status)
	})

	t.Run(`чужую заявку отменить нельзя`, func(t *testing.T) {
		conn := setupDB(t)
		handler := NewHandlerWithDB(conn)
		dayOff := globalType(t, conn, "Отгул")
		createWorkflow(t, conn, dayOff.ID)

		view, err := handler.Create(ctx, testSpaceID, testUserID, requestData(dayOff.ID, 10, 3))
		require.NoError(t, err)
		err = handler.Cancel(testSpaceID, "user-2", view.ID)
		require.ErrorIs(t, err, models.ErrNotRequestOwner)
		require.Equal(t, 3, pendingDays(t, conn, dayOff.ID))
	})
}
