// Package worker keeps the published highlights current.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
	"github.com/tartampluch/go-onthisday/internal/render"
	"github.com/tartampluch/go-onthisday/internal/server"
)

// Publisher receives every freshly rendered snapshot.
type Publisher interface {
	Update(server.Snapshot)
}

// Worker reloads the dataset on a cron schedule and at midnight, when the
// "today" bucket changes even if the data does not.
type Worker struct {
	Loader     *engine.Loader
	Source     engine.SourceConfig
	Translator *render.Translator
	Reminder   string // optional VALARM trigger for the calendar
	Schedule   string // standard 5-field cron expression
	Publisher  Publisher
}

// Start performs an initial refresh, then refreshes on schedule until ctx is cancelled.
// A failed refresh is logged and leaves the previous snapshot in place.
func (w *Worker) Start(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	schedule := w.Schedule
	if schedule == "" {
		schedule = config.DefaultRefresh
	}

	c := cron.New()
	job := w.refreshJob(ctx)

	if _, err := c.AddJob(schedule, job); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedulerAdd, err)
	}
	if _, err := c.AddJob(config.MidnightSchedule, job); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedulerAdd, err)
	}

	job.Run()

	c.Start()
	log.Info(config.MsgWorkerStart, config.LogKeySchedule, schedule)

	<-ctx.Done()
	log.Info(config.MsgWorkerStop)
	<-c.Stop().Done()
	return nil
}

// refreshJob returns the single job shared by every schedule entry, so a tick
// that coincides with midnight is skipped while the other run is in flight.
func (w *Worker) refreshJob(ctx context.Context) cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).
		Then(cron.FuncJob(func() { w.refreshLogged(ctx) }))
}

func (w *Worker) refreshLogged(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
}

// Refresh loads the dataset, renders every artifact and publishes them together.
func (w *Worker) Refresh(ctx context.Context) error {
	if w.Loader == nil || w.Publisher == nil {
		return errors.New(config.ErrSourceNotConfig)
	}

	res, err := w.Loader.Run(ctx, w.Source)
	if err != nil {
		return err
	}

	snap, err := BuildSnapshot(res, w.Translator, w.Reminder)
	if err != nil {
		return err
	}

	w.Publisher.Update(snap)
	return nil
}

// BuildSnapshot renders the page, the JSON document and the calendar for res.
func BuildSnapshot(res *engine.Result, tr *render.Translator, reminder string) (server.Snapshot, error) {
	var page, doc bytes.Buffer

	if err := render.WritePage(&page, res.Highlights, tr); err != nil {
		return server.Snapshot{}, fmt.Errorf("%s: %w", config.ErrRender, err)
	}
	if err := render.WriteJSON(&doc, res.Highlights); err != nil {
		return server.Snapshot{}, fmt.Errorf("%s: %w", config.ErrRender, err)
	}

	ics, err := engine.BuildCalendar(res.Events, res.Now, reminder)
	if err != nil {
		return server.Snapshot{}, err
	}

	return server.Snapshot{HTML: page.Bytes(), JSON: doc.Bytes(), ICS: ics}, nil
}
