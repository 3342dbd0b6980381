//go:build windows

package calibration

import (
	"context"
	"fmt"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/alex-vit/hdrbright/internal/com"
)

// TaskScheduler drives the Schedule.Service automation object on apt.
type TaskScheduler struct {
	apt *com.Apartment
}

func NewTaskScheduler(apt *com.Apartment) *TaskScheduler {
	return &TaskScheduler{apt: apt}
}

func (t *TaskScheduler) RunTask(ctx context.Context, folder, name string) error {
	return t.apt.Do(ctx, func() error {
		unknown, err := oleutil.CreateObject("Schedule.Service")
		if err != nil {
			return fmt.Errorf("CreateObject(Schedule.Service): %w", err)
		}
		defer unknown.Release()

		svc, err := unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			return fmt.Errorf("QueryInterface IDispatch: %w", err)
		}
		defer svc.Release()

		if _, err := oleutil.CallMethod(svc, "Connect"); err != nil {
			return fmt.Errorf("Connect: %w", err)
		}
		fv, err := oleutil.CallMethod(svc, "GetFolder", folder)
		if err != nil {
			return fmt.Errorf("GetFolder(%s): %w", folder, err)
		}
		f := fv.ToIDispatch()
		defer f.Release()

		tv, err := oleutil.CallMethod(f, "GetTask", name)
		if err != nil {
			return fmt.Errorf("GetTask(%s): %w", name, err)
		}
		task := tv.ToIDispatch()
		defer task.Release()

		rv, err := oleutil.CallMethod(task, "Run", nil)
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}
		if running := rv.ToIDispatch(); running != nil {
			running.Release()
		}
		return nil
	})
}
