package testdb

import (
	"testing"

	"leave-tools-backend/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open - чистая in-memory БД со структурой проекта
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.MigrateDB(conn))
	return conn
}

// OpenSeeded - БД с предзаполненными глобальными типами отпусков
func OpenSeeded(t *testing.T) *gorm.DB {
	t.Helper()
	conn := Open(t)
	require.NoError(t, db.SeedGlobalLeaveTypes(conn))
	return conn
}
