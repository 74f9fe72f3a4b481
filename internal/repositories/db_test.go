package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_UnreachablePostgres(t *testing.T) {
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")

	err := InitDB()

	require.Error(t, err)
	assert.Nil(t, DB, "a failed init must not leave a partial handle behind")
}

func TestCloseDB_WithoutConnection(t *testing.T) {
	assert.NoError(t, CloseDB())
}
