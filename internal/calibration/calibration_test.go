package calibration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-vit/hdrbright/internal/calibration"
)

type fakeScheduler struct {
	folder, name string
	err          error
}

func (f *fakeScheduler) RunTask(_ context.Context, folder, name string) error {
	f.folder, f.name = folder, name
	return f.err
}

func TestReloadRunsLoaderTask(t *testing.T) {
	s := &fakeScheduler{}
	require.NoError(t, calibration.New(s).Reload(context.Background()))
	assert.Equal(t, `\Microsoft\Windows\WindowsColorSystem`, s.folder)
	assert.Equal(t, "Calibration Loader", s.name)
}

func TestReloadFailure(t *testing.T) {
	denied := errors.New("access denied")
	err := calibration.New(&fakeScheduler{err: denied}).Reload(context.Background())
	assert.ErrorIs(t, err, denied)
	assert.ErrorContains(t, err, "Calibration Loader")
}

func TestReloadWithoutScheduler(t *testing.T) {
	var l *calibration.Loader
	assert.ErrorIs(t, l.Reload(context.Background()), calibration.ErrUnavailable)
	assert.ErrorIs(t, calibration.New(nil).Reload(context.Background()), calibration.ErrUnavailable)
}
