package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"homeworkbot/internal/config"
	"homeworkbot/internal/notifier"
	"homeworkbot/internal/poller"
	"homeworkbot/internal/practicum"
	"homeworkbot/internal/runtime/supervisor"
	kit "homeworkbot/internal/transport"
	telegram "homeworkbot/internal/transport/telegram/adapter"
	logx "homeworkbot/pkg/logx"
	"homeworkbot/pkg/systemd"
)

type App struct {
	cfgm *config.ConfigManager
	res  config.Resolved

	log  logx.Logger
	logs *logx.Service
	sup  *supervisor.Supervisor
	sd   systemd.Notifier

	loop *poller.Loop
}

// NewApp loads configuration and builds every component. It never touches
// the network. An error matching config.ErrMissing means required
// environment variables are absent.
func NewApp(cfgm *config.ConfigManager) (*App, error) {
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	res, err := config.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	sched, err := poller.ParseSchedule(res.Interval)
	if err != nil {
		return nil, &config.InvalidError{Field: "poll.interval", Value: res.Interval, Reason: err.Error()}
	}

	logSvc, log := logx.New(cfg.Logging.LogxConfig())

	ad, err := telegram.New(telegram.Config{
		Token:   res.TelegramToken,
		Timeout: res.TelegramTimeout,
		APIURL:  res.TelegramAPIURL,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	notif := notifier.New(notifier.Config{
		RatePerSec: res.RatePerSec,
		Timeout:    res.TelegramTimeout,
	}, ad, kit.ChatTarget{ChatID: res.ChatID}, log.With(logx.String("comp", "notifier")))

	api := practicum.NewClient(res.Endpoint, res.PracticumToken, res.PracticumTimeout)

	a := &App{
		cfgm: cfgm,
		res:  res,
		log:  log.With(logx.String("comp", "app")),
		logs: logSvc,
	}
	a.loop = poller.New(api, notif, log.With(logx.String("comp", "poller")), poller.Options{
		Window:         res.Window,
		Schedule:       sched,
		AfterIteration: a.pingWatchdog,
	})
	return a, nil
}

// Loop exposes the polling loop (cursor inspection in tests and diagnostics).
func (a *App) Loop() *poller.Loop { return a.loop }

// Logger is the configured application logger.
func (a *App) Logger() logx.Logger { return a.log }

// Done is closed when the app context is canceled (signal, fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	if a.sup != nil {
		return fmt.Errorf("app already started")
	}
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	a.checkWatchdog()

	a.sup.Go("poller", a.loop.Run)

	if a.cfgm.Path() != "" {
		sub := a.cfgm.Subscribe(1)
		a.sup.Go("config.watch", a.cfgm.Watch)
		a.sup.Go0("config.reload", func(c context.Context) {
			defer a.cfgm.Unsubscribe(sub)
			a.reloadLoop(c, sub)
		})
	}

	a.log.Info("homeworkbot started",
		logx.String("endpoint", a.res.Endpoint),
		logx.String("interval", a.res.Interval),
		logx.String("window", a.res.Window),
		logx.Int64("chat_id", a.res.ChatID),
	)
	if _, err := a.sd.Ready(); err != nil {
		a.log.Warn("sd_notify READY failed", logx.Err(err))
	}
	return nil
}

// reloadLoop applies logging changes from the config file while the bot runs.
// Every other section is only read at startup.
func (a *App) reloadLoop(ctx context.Context, sub <-chan *config.Config) {
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-sub:
			if !ok {
				return
			}
			changed, fields, live := config.SummarizeChange(last, next)
			last = next
			if len(changed) == 0 {
				a.log.Debug("config reload received, but no effective changes detected")
				continue
			}
			if slices.Contains(changed, "logging") {
				a.logs.Apply(next.Logging.LogxConfig())
			}
			a.log.Info("config change applied",
				append([]logx.Field{logx.String("changed", strings.Join(changed, ","))}, fields...)...)
			if !live {
				a.log.Warn("restart required to apply config change", logx.Strings("sections", changed))
			}
		}
	}
}

func (a *App) pingWatchdog() {
	if _, err := a.sd.Watchdog(); err != nil {
		a.log.Debug("sd_notify WATCHDOG failed", logx.Err(err))
	}
}

// checkWatchdog warns when systemd would kill the unit between two polls.
func (a *App) checkWatchdog() {
	wd := systemd.WatchdogInterval()
	if wd <= 0 {
		return
	}
	sched, err := poller.ParseSchedule(a.res.Interval)
	if err != nil {
		return
	}
	now := time.Now()
	cycle := sched.Next(now).Sub(now) + a.res.PracticumTimeout + a.res.TelegramTimeout
	if wd <= cycle {
		a.log.Warn("systemd WatchdogSec is shorter than one poll cycle",
			logx.Duration("watchdog", wd), logx.Duration("cycle", cycle))
	}
}

// Stop cancels every goroutine and waits for them, bounded by ctx.
func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		_ = a.logs.Close()
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))
	if _, err := a.sd.Stopping(); err != nil {
		a.log.Debug("sd_notify STOPPING failed", logx.Err(err))
	}

	start := time.Now()
	err := a.sup.Stop(ctx)
	if err != nil && ctx.Err() != nil {
		a.log.Warn("stop deadline reached (continuing)",
			logx.Err(err),
			logx.Int64("active", a.sup.Counters().Active),
			logx.Duration("elapsed", time.Since(start)),
		)
	}

	a.log.Info("stopped", logx.Duration("took", time.Since(start)))
	_ = a.logs.Close()
	return err
}
