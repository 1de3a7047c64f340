package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

const (
	telegramTextLimit = 4000
	defaultTimeout    = 30 * time.Second
)

type Config struct {
	Token string
	// Timeout bounds every Bot API request.
	Timeout time.Duration
	// APIURL overrides the Bot API base URL (tests).
	APIURL string
}

// Adapter sends messages through the Telegram Bot API. It never polls for
// updates: the bot only talks, it does not listen.
type Adapter struct {
	cfg Config
	log logx.Logger
	bot *tele.Bot
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	// Offline skips getMe, so a network hiccup at startup is not fatal;
	// the first send reports it instead.
	b, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: cfg.Timeout},
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{cfg: cfg, log: log, bot: b}, nil
}

// splitTelegramText splits long messages into chunks Telegram accepts,
// preferring newline boundaries.
func splitTelegramText(s string, limit int) []string {
	if limit <= 0 {
		limit = telegramTextLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := start + limit
		if end > len(rs) {
			end = len(rs)
		}
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				// Avoid extremely small chunks.
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}

		out = append(out, strings.TrimRight(string(rs[start:end]), "\n"))

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}

func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if opt == nil {
		opt = &kit.SendOptions{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	chat := &tele.Chat{ID: to.ChatID}

	var first kit.MessageRef
	for i, chunk := range splitTelegramText(text, telegramTextLimit) {
		if err := ctx.Err(); err != nil {
			return first, err
		}

		msg, err := a.send(ctx, chat, chunk, &tele.SendOptions{
			ParseMode:             opt.ParseMode,
			DisableWebPagePreview: opt.DisablePreview,
			ThreadID:              to.ThreadID,
		})
		if err != nil {
			return first, err
		}
		if i == 0 && msg != nil {
			first = kit.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}
		}
		a.log.Trace("chunk sent", logx.Int("chunk", i), logx.Int64("chat_id", to.ChatID))
	}
	return first, nil
}

type sendResult struct {
	msg *tele.Message
	err error
}

// send bounds one Bot API call by ctx. telebot requests carry no context, so
// an abandoned call finishes in the background within the client timeout.
func (a *Adapter) send(ctx context.Context, chat *tele.Chat, text string, opt *tele.SendOptions) (*tele.Message, error) {
	done := make(chan sendResult, 1)
	go func() {
		msg, err := a.bot.Send(chat, text, opt)
		done <- sendResult{msg: msg, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.msg, r.err
	}
}
