package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"ledger/src/utils"
)

// ScheduledTask runs a background job on a cron schedule. The task receives a
// context carrying the logger and reports failures through its error return;
// a failed run is logged and the schedule keeps going.
type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
}

func NewScheduledTask(cronSpec string, logger *logrus.Logger, taskFunc func(ctx context.Context) error) (*ScheduledTask, error) {
	c := cron.New()
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			ctx := utils.WithLogger(context.Background(), logger)
			if err := taskFunc(ctx); err != nil {
				logger.WithError(err).Error("scheduled task failed")
			}
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	close(s.cancel)
}
