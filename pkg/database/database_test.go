package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	for driver, name := range map[string]string{"postgres": "postgres", "mysql": "mysql", "sqlite": "sqlite"} {
		d, err := Dialector(&config.DBConfig{Driver: driver, DBName: "x"})
		require.NoError(t, err, driver)
		assert.Equal(t, name, d.Name())
	}

	_, err := Dialector(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitDBWithSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DBConfig{
		Driver:          "sqlite",
		DBName:          filepath.Join(t.TempDir(), "management.db"),
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Minute,
		LogLevel:        logger.Silent,
	}}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
