// Package poller runs the fetch, validate, format, notify, sleep cycle.
//
// Iterations are strictly serial. Nothing that goes wrong inside an iteration
// stops the loop: failures are logged and the loop sleeps as usual. Only
// cancellation of the Run context ends it.
package poller

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"

	"homeworkbot/internal/homework"
	logx "homeworkbot/pkg/logx"
)

// Fetcher retrieves the raw API response for updates since fromDate.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (any, error)
}

// Notifier delivers one notification text.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

const (
	WindowCursor = "cursor"
	WindowReset  = "reset"
)

type Options struct {
	// Window selects the from_date policy: WindowCursor (default) or WindowReset.
	Window   string
	Schedule cron.Schedule

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	// AfterIteration runs once per iteration, before the sleep (watchdog ping).
	AfterIteration func()
}

type Status int

const (
	StatusNotified Status = iota + 1
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusNotified:
		return "notified"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Stage string

const (
	StageFetch    Stage = "fetch"
	StageValidate Stage = "validate"
	StageFormat   Stage = "format"
	StageNotify   Stage = "notify"
)

// Outcome is the tagged result of one iteration.
type Outcome struct {
	Status  Status
	Stage   Stage
	Kind    homework.Kind
	Err     error
	Message string
	// FromDate is the from_date the iteration asked for.
	FromDate int64
}

type Loop struct {
	fetch  Fetcher
	notify Notifier
	log    logx.Logger

	window     string
	schedule   cron.Schedule
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	afterIter  func()
	cursor     *Cursor
	iterations uint64
}

func New(f Fetcher, n Notifier, log logx.Logger, opts Options) *Loop {
	if log.IsZero() {
		log = logx.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Schedule == nil {
		opts.Schedule = cron.Every(DefaultInterval)
	}
	if opts.Window != WindowReset {
		opts.Window = WindowCursor
	}
	return &Loop{
		fetch:     f,
		notify:    n,
		log:       log,
		window:    opts.Window,
		schedule:  opts.Schedule,
		now:       opts.Now,
		sleep:     opts.Sleep,
		afterIter: opts.AfterIteration,
		cursor:    NewCursor(opts.Now()),
	}
}

// Cursor returns the current poll cursor value.
func (l *Loop) Cursor() int64 { return l.cursor.Value() }

// Run polls until ctx is cancelled and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("polling started",
		logx.String("window", l.window),
		logx.Int64("cursor", l.cursor.Value()),
	)
	for {
		if err := l.iterate(ctx); err != nil {
			l.log.Info("polling stopped", logx.Err(err))
			return err
		}
	}
}

// iterate runs one iteration and then always sleeps, whatever the outcome.
func (l *Loop) iterate(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if l.afterIter != nil {
			l.afterIter()
		}
		d := untilNext(l.schedule, l.now())
		l.log.Debug("sleeping", logx.Duration("for", d))
		err = l.sleep(ctx, d)
	}()
	l.RunOnce(ctx)
	return nil
}

// RunOnce executes FETCH, VALIDATE, then EMPTY or NOTIFY, and never panics.
func (l *Loop) RunOnce(ctx context.Context) (out Outcome) {
	l.iterations++
	log := l.log.With(logx.Int64("iteration", int64(l.iterations)))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.Error("program malfunction", logx.Err(err), logx.String("stack", string(debug.Stack())))
			out = Outcome{Status: StatusFailed, Stage: out.Stage, Err: err, FromDate: out.FromDate}
		}
	}()

	out.FromDate = l.fromDate()
	out.Stage = StageFetch

	resp, fetchErr := l.fetch.Fetch(ctx, out.FromDate)
	if fetchErr != nil {
		log.Error("review api request failed", logx.Int64("from_date", out.FromDate), logx.Err(fetchErr))
		resp = nil
	}

	out.Stage = StageValidate
	homeworks, err := homework.Validate(log, resp)
	if err != nil {
		if fetchErr != nil {
			err = errors.Join(err, fetchErr)
		}
		return l.failed(log, out, err)
	}

	l.advance(log, resp)

	if len(homeworks) == 0 {
		log.Debug("no status changes")
		out.Status = StatusEmpty
		return out
	}
	if len(homeworks) > 1 {
		log.Debug("only the latest homework is reported", logx.Int("ignored", len(homeworks)-1))
	}

	out.Stage = StageFormat
	msg, err := homework.Format(homeworks[0])
	if err != nil {
		return l.failed(log, out, err)
	}
	out.Message = msg

	out.Stage = StageNotify
	if err := l.notify.Notify(ctx, msg); err != nil {
		return l.failed(log, out, err)
	}

	log.Info("status change reported", logx.String("homework", homework.Name(homeworks[0])))
	out.Status = StatusNotified
	return out
}

func (l *Loop) fromDate() int64 {
	if l.window == WindowReset {
		return l.now().Unix()
	}
	return l.cursor.Value()
}

// advance moves the cursor to the server's current_date. Only validated
// responses get here.
func (l *Loop) advance(log logx.Logger, resp any) {
	ts, ok := homework.CurrentDate(resp)
	if !ok {
		log.Warn("response has no integer current_date; cursor unchanged", logx.Int64("cursor", l.cursor.Value()))
		return
	}
	if !l.cursor.Advanced() {
		log.Info("cursor synced with server", logx.Int64("cursor", ts))
	}
	l.cursor.Advance(ts)
	log.Debug("cursor advanced", logx.Int64("cursor", ts))
}

func (l *Loop) failed(log logx.Logger, out Outcome, err error) Outcome {
	out.Status = StatusFailed
	out.Err = err
	out.Kind = homework.KindOf(err)
	kind := out.Kind.String()
	if out.Kind == homework.KindNone && out.Stage == StageNotify {
		kind = "delivery_failure"
	}
	log.Error("program malfunction",
		logx.String("stage", string(out.Stage)),
		logx.String("kind", kind),
		logx.Err(err),
	)
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
