package scheduler

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySpec(t *testing.T) {
	spec, err := DailySpec("UTC", "09:00")
	require.NoError(t, err)
	assert.Equal(t, "CRON_TZ=UTC 0 9 * * *", spec)

	spec, err = DailySpec("Europe/London", "18:45")
	require.NoError(t, err)
	assert.Equal(t, "CRON_TZ=Europe/London 45 18 * * *", spec)
}

func TestDailySpecParsesAsCron(t *testing.T) {
	spec, err := DailySpec("Asia/Singapore", "07:30")
	require.NoError(t, err)

	_, err = cron.ParseStandard(spec)
	assert.NoError(t, err)
}

func TestDailySpecInvalidInput(t *testing.T) {
	_, err := DailySpec("Mars/Olympus", "09:00")
	assert.Error(t, err)

	_, err = DailySpec("UTC", "25:00")
	assert.Error(t, err)

	_, err = DailySpec("UTC", "nine")
	assert.Error(t, err)
}
