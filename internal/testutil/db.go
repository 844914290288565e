// Package testutil opens throwaway SQLite databases carrying the production schema.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go-itstock/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database private to t. Timestamps are written in UTC.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// SeedUser creates an active user bound to the given role code, seeding roles first.
func SeedUser(t *testing.T, db *gorm.DB, username, roleCode string) *model.User {
	t.Helper()

	role := model.Role{Code: roleCode, Name: roleCode}
	require.NoError(t, db.Where("code = ?", roleCode).FirstOrCreate(&role).Error)

	user := &model.User{Username: username, FullName: username, RoleID: &role.ID, IsActive: true}
	require.NoError(t, user.SetPassword("P@ssw0rd"))
	require.NoError(t, db.Omit("Role").Create(user).Error)
	user.Role = &role
	return user
}
