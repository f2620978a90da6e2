// Package telegram adapts the Telegram Bot API to the router. It owns the
// long-polling loop, offset bookkeeping, and the rendering of screens into
// Telegram messages with inline keyboards. Updates are processed strictly in
// receipt order; all per-user state lives behind the router.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jpillora/backoff"

	"github.com/spotcoach/cravebreaker/internal/router"
)

// Handler is the routing surface the transport dispatches into.
type Handler interface {
	HandleCommand(ctx context.Context, userID int64, username, text string) router.Screen
	HandleCallback(ctx context.Context, userID int64, token string) router.Screen
}

// botAPI is the slice of *tgbotapi.BotAPI the client uses, extracted so tests
// can substitute a mock.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Opts holds transport configuration.
type Opts struct {
	PollTimeout int
}

// Option configures client creation.
type Option func(*Opts)

// WithPollTimeout sets the long-poll timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(o *Opts) { o.PollTimeout = seconds }
}

// Client drives the polling loop and turns updates into router calls.
type Client struct {
	api         botAPI
	handler     Handler
	pollTimeout int
	offset      int
	running     atomic.Bool
}

// NewClient authenticates against the Bot API and builds a client.
func NewClient(token string, h Handler, opts ...Option) (*Client, error) {
	o := Opts{PollTimeout: 30}
	for _, opt := range opts {
		opt(&o)
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate bot: %w", err)
	}
	slog.Info("telegram.NewClient authorized", "username", api.Self.UserName)
	return &Client{api: api, handler: h, pollTimeout: o.PollTimeout}, nil
}

// Running reports whether the polling loop is active.
func (c *Client) Running() bool {
	return c.running.Load()
}

// Start runs the polling loop until the context is canceled. Any webhook left
// by a previous deployment is removed first, since getUpdates conflicts with
// an active webhook. Poll failures back off exponentially; a 409 conflict
// retries the webhook removal before the next poll.
func (c *Client) Start(ctx context.Context) error {
	c.deleteWebhook()

	c.running.Store(true)
	defer c.running.Store(false)

	b := &backoff.Backoff{Min: time.Second, Max: time.Minute, Factor: 2, Jitter: true}
	slog.Info("telegram.Start polling", "timeout", c.pollTimeout)
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("telegram.Start stopping", "reason", err)
			return nil
		}

		cfg := tgbotapi.NewUpdate(c.offset)
		cfg.Timeout = c.pollTimeout
		cfg.AllowedUpdates = []string{"message", "callback_query"}

		updates, err := c.api.GetUpdates(cfg)
		if err != nil {
			if isConflict(err) {
				slog.Warn("telegram.Start poll conflict, removing webhook", "error", err)
				c.deleteWebhook()
			} else {
				slog.Error("telegram.Start poll failed", "error", err)
			}
			if !sleepCtx(ctx, b.Duration()) {
				return nil
			}
			continue
		}
		b.Reset()

		for _, u := range updates {
			if u.UpdateID >= c.offset {
				c.offset = u.UpdateID + 1
			}
			c.dispatch(ctx, u)
		}
	}
}

func (c *Client) deleteWebhook() {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("telegram failed to delete webhook", "error", err)
	}
}

// dispatch handles one update. Callback taps edit the originating message in
// place; plain messages get a new reply.
func (c *Client) dispatch(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		c.ackCallback(q.ID)
		screen := c.handler.HandleCallback(ctx, q.From.ID, q.Data)
		if q.Message != nil {
			c.edit(q.Message.Chat.ID, q.Message.MessageID, screen)
		}
	case u.Message != nil:
		m := u.Message
		screen := c.handler.HandleCommand(ctx, m.From.ID, m.From.UserName, m.Text)
		c.send(m.Chat.ID, screen)
	}
}

func (c *Client) ackCallback(id string) {
	if _, err := c.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		slog.Debug("telegram failed to ack callback", "error", err)
	}
}

func (c *Client) send(chatID int64, s router.Screen) {
	msg := tgbotapi.NewMessage(chatID, s.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb, ok := renderKeyboard(s); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := c.api.Send(msg); err != nil {
		slog.Error("telegram failed to send message", "chatID", chatID, "error", err)
	}
}

// edit updates the tapped message in place. Telegram rejects edits of old
// messages, so a failed edit falls back to sending a fresh one.
func (c *Client) edit(chatID int64, messageID int, s router.Screen) {
	var edit tgbotapi.Chattable
	if kb, ok := renderKeyboard(s); ok {
		e := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, s.Text, kb)
		e.ParseMode = tgbotapi.ModeMarkdown
		edit = e
	} else {
		e := tgbotapi.NewEditMessageText(chatID, messageID, s.Text)
		e.ParseMode = tgbotapi.ModeMarkdown
		edit = e
	}
	if _, err := c.api.Send(edit); err != nil {
		slog.Debug("telegram edit failed, sending new message", "chatID", chatID, "error", err)
		c.send(chatID, s)
	}
}

// renderKeyboard converts a screen's button layout to an inline keyboard.
// Screens without buttons report ok=false so no empty markup is attached.
func renderKeyboard(s router.Screen) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(s.Keyboard) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.Keyboard))
	for _, row := range s.Keyboard {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
			}
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// isConflict detects the 409 returned when a webhook is still registered.
func isConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "409")
}

// sleepCtx waits d or until the context is canceled, reporting whether the
// caller should keep going.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
