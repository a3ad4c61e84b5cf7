package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_AreIdempotent(t *testing.T) {
	for _, m := range Migrations {
		assert.Contains(t, m.Statement, "IF NOT EXISTS", m.Name)
	}
}

func TestMigrations_RunsBeforeAttempts(t *testing.T) {
	runs, attempts := -1, -1
	for i, m := range Migrations {
		if strings.Contains(m.Statement, "TABLE IF NOT EXISTS pipeline_runs") {
			runs = i
		}
		if strings.Contains(m.Statement, "TABLE IF NOT EXISTS pipeline_step_attempts") {
			attempts = i
		}
	}

	assert.GreaterOrEqual(t, runs, 0)
	assert.Greater(t, attempts, runs)
}
