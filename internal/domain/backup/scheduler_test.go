package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	f := newFixture(t)

	_, err := NewScheduler(f.svc, "every tuesday", 0, nil)
	assert.Error(t, err)
}

func TestScheduler_RunCreatesBackup(t *testing.T) {
	f := newFixture(t)

	s, err := NewScheduler(f.svc, "@daily", 1, nil)
	require.NoError(t, err)
	s.Run()

	snaps, err := f.svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "scheduler", snaps[0].User)

	s.Start()
	s.Stop(context.Background())
}
