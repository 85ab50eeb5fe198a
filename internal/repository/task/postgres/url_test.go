package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", migrateURL("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://u:p@localhost/db", migrateURL("postgresql://u:p@localhost/db"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}
