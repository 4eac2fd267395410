package leavetypeprovider

import (
	"testing"

	"leave-tools-backend/lib/utils/testdb"
	"leave-tools-backend/models"
	leaveapimodels "leave-tools-backend/models/api/leave"
	dbmodels "leave-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

const testSpaceID = "space-1"

func annualOverride(defaultDays, maxDays int) leaveapimodels.OverrideData {
	return leaveapimodels.OverrideData{
		LeaveTypeData: leaveapimodels.LeaveTypeData{
			Name:        "Ежегодный отпуск",
			Description: "Настройка спейса",
			MaxDays:     maxDays,
			IsPaid:      true,
			IsActive:    true,
		},
		Policy: leaveapimodels.PolicyData{
			DefaultDays:        defaultDays,
			CarryForwardDays:   3,
			RequiresApproval:   true,
			NoticePeriodDays:   7,
			MaxConsecutiveDays: 14,
			IsActive:           true,
		},
	}
}

func TestUpsertOverride(t *testing.T) {
	t.Run(`копия глобального типа создаётся один раз`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		firstID, err := handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)
		secondID, err := handler.UpsertOverride(testSpaceID, annualOverride(15, 25))
		require.NoError(t, err)
		require.Equal(t, firstID, secondID)

		var count int64
		err = conn.Model(&dbmodels.LeaveType{}).
			Where("space_id = ? AND name = ?", testSpaceID, "Ежегодный отпуск").
			Count(&count).
			Error
		require.NoError(t, err)
		require.EqualValues(t, 1, count)
	})

	t.Run(`глобальный тип не изменяется`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		_, err := handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)

		global := dbmodels.LeaveType{}
		err = conn.Preload("Policy").
			Where("space_id IS NULL AND name = ?", "Ежегодный отпуск").
			First(&global).
			Error
		require.NoError(t, err)
		require.Equal(t, 30, global.MaxDays)
		require.Equal(t, 21, global.Policy.DefaultDays)
	})

	t.Run(`DefaultDays прижимается к MaxDays`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		id, err := handler.UpsertOverride(testSpaceID, annualOverride(40, 10))
		require.NoError(t, err)

		rec := dbmodels.LeaveType{}
		err = conn.Preload("Policy").Where("id = ?", id).First(&rec).Error
		require.NoError(t, err)
		require.Equal(t, 10, rec.Policy.DefaultDays)
	})

	t.Run(`настройка несуществующего типа`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		data := annualOverride(10, 20)
		data.Name = "Неизвестный тип"
		_, err := handler.UpsertOverride(testSpaceID, data)
		require.ErrorIs(t, err, models.ErrPolicyNotFound)
	})
}

func TestList(t *testing.T) {
	t.Run(`тип спейса затеняет глобальный`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		_, err := handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)

		list, err := handler.List(testSpaceID)
		require.NoError(t, err)

		seen := 0
		for _, view := range list {
			if view.Name == "Ежегодный отпуск" {
				seen++
				require.False(t, view.IsGlobal)
				require.Equal(t, 25, view.MaxDays)
			}
		}
		require.Equal(t, 1, seen)
	})

	t.Run(`другой спейс видит глобальный тип`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		_, err := handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)

		list, err := handler.List("space-2")
		require.NoError(t, err)
		for _, view := range list {
			if view.Name == "Ежегодный отпуск" {
				require.True(t, view.IsGlobal)
				require.Equal(t, 30, view.MaxDays)
			}
		}
	})
}

func TestGetEffective(t *testing.T) {
	t.Run(`затенённый глобальный тип недоступен`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		global := dbmodels.LeaveType{}
		err := conn.Where("space_id IS NULL AND name = ?", "Ежегодный отпуск").First(&global).Error
		require.NoError(t, err)

		_, _, err = handler.GetEffective(testSpaceID, global.ID)
		require.NoError(t, err)

		_, err = handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)

		_, _, err = handler.GetEffective(testSpaceID, global.ID)
		require.ErrorIs(t, err, models.ErrInvalidLeaveType)
	})

	t.Run(`чужой тип спейса недоступен`, func(t *testing.T) {
		conn := testdb.OpenSeeded(t)
		handler := NewHandlerWithDB(conn)

		id, err := handler.UpsertOverride(testSpaceID, annualOverride(18, 25))
		require.NoError(t, err)

		_, _, err = handler.GetEffective("space-2", id)
		require.ErrorIs(t, err, models.ErrInvalidLeaveType)
	})
}
