package database

import (
	"bytes"
	"testing"

	"github.com/homebudget/budget-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	db, err := Connect(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))

	var buf bytes.Buffer
	session := db.Session(&gorm.Session{Logger: newLogger(&buf)})

	var user models.User
	err = session.Where("email = ?", "nobody@example.com").First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")

	err = session.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table")
}
