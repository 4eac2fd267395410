package leavebalancehandler

import (
	"testing"
	"time"

	"leave-tools-backend/lib/utils/testdb"
	"leave-tools-backend/models"
	dbmodels "leave-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSpaceID = "space-1"
	testUserID  = "user-1"
)

func annualType(t *testing.T, conn *gorm.DB) *dbmodels.LeaveType {
	t.Helper()
	rec := dbmodels.LeaveType{}
	err := conn.Preload("Policy").
		Where("space_id IS NULL AND name = ?", "Ежегодный отпуск").
		First(&rec).
		Error
	require.NoError(t, err)
	return &rec
}

func getBalance(t *testing.T, conn *gorm.DB, leaveTypeID string, year int) dbmodels.LeaveBalance {
	t.Helper()
	rec := dbmodels.LeaveBalance{}
	err := conn.
		Where("space_id = ? AND user_id = ? AND leave_type_id = ? AND year = ?", testSpaceID, testUserID, leaveTypeID, year).
		First(&rec).
		Error
	require.NoError(t, err)
	return rec
}

func TestBalanceLifecycle(t *testing.T) {
	year := time.Now().Year()

	t.Run(`ленивое создание баланса из политики`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		rec, err := handler.EnsureBalance(testSpaceID, testUserID, leaveType, year)
		require.NoError(t, err)
		require.Equal(t, 21, rec.TotalDays)
		require.Equal(t, 0, rec.CarryForwardDays)
		require.Equal(t, 21, rec.AvailableDays())
	})

	t.Run(`удержание и списание сохраняют сумму дней`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year, 5))
		rec := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 5, rec.PendingDays)
		require.Equal(t, 16, rec.AvailableDays())

		require.NoError(t, handler.Commit(testSpaceID, testUserID, leaveType.ID, year, 5))
		rec = getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 0, rec.PendingDays)
		require.Equal(t, 5, rec.UsedDays)
		require.Equal(t, 16, rec.AvailableDays())
	})

	t.Run(`возврат удержанных дней`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year, 7))
		require.NoError(t, handler.Release(testSpaceID, testUserID, leaveType.ID, year, 7))
		rec := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 0, rec.PendingDays)
		require.Equal(t, 0, rec.UsedDays)
		require.Equal(t, 21, rec.AvailableDays())
	})

	t.Run(`недостаточно дней на балансе`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		err := handler.Reserve(testSpaceID, testUserID, leaveType, year, 22)
		balanceErr := models.InsufficientBalanceError{}
		require.ErrorAs(t, err, &balanceErr)
		require.Equal(t, 21, balanceErr.Available)
		require.Equal(t, 22, balanceErr.Requested)

		rec := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 0, rec.PendingDays)
	})

	t.Run(`повторное удержание видит актуальный остаток`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		// условие доступности входит в сам UPDATE, поэтому второе
		// удержание не может пройти по уже устаревшему остатку
		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year, 11))
		err := handler.Reserve(testSpaceID, testUserID, leaveType, year, 11)
		balanceErr := models.InsufficientBalanceError{}
		require.ErrorAs(t, err, &balanceErr)
		require.Equal(t, 10, balanceErr.Available)
		require.Equal(t, 11, balanceErr.Requested)

		rec := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 11, rec.PendingDays)
	})

	t.Run(`списание больше удержанного не проходит`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)

		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year, 2))
		require.Error(t, handler.Commit(testSpaceID, testUserID, leaveType.ID, year, 3))
		require.Error(t, handler.Release(testSpaceID, testUserID, leaveType.ID, year, 3))
	})
}

func TestRolloverYear(t *testing.T) {
	year := time.Now().Year()

	createUser := func(t *testing.T, conn *gorm.DB) {
		t.Helper()
		err := conn.Create(&dbmodels.SpaceUser{
			BaseModel: dbmodels.BaseModel{ID: testUserID},
			FirstName: "Иван",
			LastName:  "Иванов",
			Email:     "ivanov@example.com",
			IsActive:  true,
			SpaceID:   testSpaceID,
			Role:      models.SpaceUserRole,
			HireDate:  time.Now().AddDate(-2, 0, 0),
		}).Error
		require.NoError(t, err)
	}

	t.Run(`перенос остатка в пределах лимита политики`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)
		createUser(t, conn)

		// остаток прошлого года 11 дн. при лимите переноса 5
		_, err := handler.EnsureBalance(testSpaceID, testUserID, leaveType, year-1)
		require.NoError(t, err)
		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year-1, 10))
		require.NoError(t, handler.Commit(testSpaceID, testUserID, leaveType.ID, year-1, 10))

		require.NoError(t, handler.RolloverYear(testSpaceID, testUserID, year))
		rec := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, 21, rec.TotalDays)
		require.Equal(t, 5, rec.CarryForwardDays)
		require.Equal(t, 26, rec.AvailableDays())
	})

	t.Run(`повторный перенос ничего не меняет`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		leaveType := annualType(t, conn)
		createUser(t, conn)

		require.NoError(t, handler.RolloverYear(testSpaceID, testUserID, year))
		rec := getBalance(t, conn, leaveType.ID, year)
		require.NoError(t, handler.Reserve(testSpaceID, testUserID, leaveType, year, 3))

		require.NoError(t, handler.RolloverYear(testSpaceID, testUserID, year))
		again := getBalance(t, conn, leaveType.ID, year)
		require.Equal(t, rec.ID, again.ID)
		require.Equal(t, 3, again.PendingDays)
	})

	t.Run(`гендерные типы не создаются неподходящему сотруднику`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)
		createUser(t, conn)
		err := conn.Model(&dbmodels.SpaceUser{}).
			Where("id = ?", testUserID).
			Update("gender", models.GenderMale).
			Error
		require.NoError(t, err)

		require.NoError(t, handler.RolloverYear(testSpaceID, testUserID, year))

		maternity := dbmodels.LeaveType{}
		err = conn.Where("space_id IS NULL AND name = ?", "Отпуск по беременности и родам").First(&maternity).Error
		require.NoError(t, err)

		var count int64
		err = conn.Model(&dbmodels.LeaveBalance{}).
			Where("user_id = ? AND leave_type_id = ?", testUserID, maternity.ID).
			Count(&count).
			Error
		require.NoError(t, err)
		require.EqualValues(t, 0, count)
	})
}
