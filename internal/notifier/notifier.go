package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

// ErrDelivery wraps every transport error returned by Notify.
var ErrDelivery = errors.New("notification delivery failed")

var errNoSender = errors.New("no sender configured")

type Config struct {
	// RatePerSec caps sends per second (burst = RatePerSec).
	RatePerSec int
	// Timeout bounds a single send. Zero means no extra bound.
	Timeout time.Duration
}

type Notifier struct {
	sender  kit.Sender
	to      kit.ChatTarget
	log     logx.Logger
	limiter *rate.Limiter
	timeout time.Duration
}

func New(cfg Config, sender kit.Sender, to kit.ChatTarget, log logx.Logger) *Notifier {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	return &Notifier{
		sender:  sender,
		to:      to,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
		timeout: cfg.Timeout,
	}
}

// Notify sends msg to the configured chat.
func (n *Notifier) Notify(ctx context.Context, msg string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := n.log.With(logx.Int64("chat_id", n.to.ChatID))
	log.Debug("sending notification", logx.String("text", msg))

	if n.sender == nil {
		return n.fail(log, errNoSender)
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return n.fail(log, err)
	}

	callCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	started := time.Now()
	ref, err := n.sender.SendText(callCtx, n.to, msg, &kit.SendOptions{DisablePreview: true})
	if err != nil {
		return n.fail(log, err)
	}
	log.Info("notification sent", logx.Int("message_id", ref.MessageID), logx.Duration("took", time.Since(started)))
	return nil
}

func (n *Notifier) fail(log logx.Logger, err error) error {
	log.Error("notification delivery failed", logx.Err(err))
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}
