// Package calibration reloads the color calibration of every monitor, the
// way Windows does at logon, by running the WindowsColorSystem calibration
// loader task.
package calibration

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	TaskFolder = `\Microsoft\Windows\WindowsColorSystem`
	TaskName   = "Calibration Loader"
)

// ErrUnavailable means no task scheduler could be reached.
var ErrUnavailable = errors.New("calibration: task scheduler unavailable")

// Scheduler runs a registered scheduled task.
type Scheduler interface {
	RunTask(ctx context.Context, folder, name string) error
}

// Loader reloads monitor calibration.
type Loader struct {
	sched Scheduler
}

func New(sched Scheduler) *Loader {
	return &Loader{sched: sched}
}

// Reload asks Windows to reapply the calibration of every monitor. The task
// runs asynchronously; a nil error means it was started.
func (l *Loader) Reload(ctx context.Context) error {
	if l == nil || l.sched == nil {
		return ErrUnavailable
	}
	if err := l.sched.RunTask(ctx, TaskFolder, TaskName); err != nil {
		log.Warn().Err(err).Msg("calibration: reload failed")
		return fmt.Errorf("calibration: run %s\\%s: %w", TaskFolder, TaskName, err)
	}
	log.Info().Msg("calibration: reload started")
	return nil
}
