package database

import (
	"path/filepath"
	"testing"

	"blinds-backend/internal/config"
	"blinds-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewConnection_SQLiteMigrates(t *testing.T) {
	cfg := config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "blinds.db"),
	}

	db, err := NewConnection(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, m := range []interface{}{&model.Job{}, &model.Blind{}, &model.CostSummary{}, &model.ActivityLog{}} {
		assert.True(t, db.Migrator().HasTable(m), "table for %T should exist", m)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())
}
