// Package testutil holds database and user fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/database"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

const DefaultPassword = "password123"

var (
	hashOnce sync.Once
	hashed   string
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn, false)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// passwordHash is computed once; bcrypt is slow enough to dominate the suite otherwise.
func passwordHash(t *testing.T) string {
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		require.NoError(t, err)
		hashed = string(b)
	})
	return hashed
}

// CreateUser inserts a user with DefaultPassword and the profile matching its role.
// Username, Email and Fullname are derived from name.
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	return CreateUserWithID(t, db, 0, name, role)
}

// CreateUserWithID is CreateUser with a fixed primary key. id 0 lets the database pick.
func CreateUserWithID(t *testing.T, db *gorm.DB, id uint, name string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		BaseModel:    models.BaseModel{ID: id},
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: passwordHash(t),
		Fullname:     "Test " + name,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error, "create user %s", name)

	switch role {
	case models.UserRoleArtist:
		require.NoError(t, db.Create(&models.ArtistProfile{UserID: user.ID}).Error)
	case models.UserRoleEmployer:
		require.NoError(t, db.Create(&models.EmployerProfile{UserID: user.ID}).Error)
	}
	return user
}

func CreateArtist(t *testing.T, db *gorm.DB, name string) *models.User {
	return CreateUser(t, db, name, models.UserRoleArtist)
}

func CreateEmployer(t *testing.T, db *gorm.DB, name string) *models.User {
	return CreateUser(t, db, name, models.UserRoleEmployer)
}

func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
