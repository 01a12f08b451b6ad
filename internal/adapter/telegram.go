package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/askaron/docsmith/internal/config"
	"github.com/askaron/docsmith/internal/errors"
	"github.com/askaron/docsmith/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit is Telegram's hard cap on message length.
const telegramMessageLimit = 4096

// TelegramAdapter serves Telegram updates in webhook mode: the webhook is
// registered at <webhook_url>/<bot_token> and updates arrive over an embedded
// HTTP server. Only plain text messages reach the event handler; commands,
// documents and everything else are ignored here.
type TelegramAdapter struct {
	cfg          config.TelegramConfig
	serverCfg    config.ServerConfig
	eventHandler EventHandler
	bot          *tgbotapi.BotAPI
	server       *http.Server
	shutdownTTL  time.Duration
}

func NewTelegramAdapter(cfg config.TelegramConfig, serverCfg config.ServerConfig, eventHandler EventHandler) *TelegramAdapter {
	return &TelegramAdapter{
		cfg:          cfg,
		serverCfg:    serverCfg,
		eventHandler: eventHandler,
	}
}

func (t *TelegramAdapter) Name() string {
	return "telegram"
}

func (t *TelegramAdapter) Start(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(t.cfg.BotToken)
	if err != nil {
		return errors.Wrap(err, "failed to init telegram bot")
	}
	t.bot = bot

	// The token doubles as the webhook path so nobody else can post updates.
	webhookURL := strings.TrimSuffix(t.cfg.WebhookURL, "/") + "/" + t.cfg.BotToken
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return errors.Wrap(err, "invalid webhook url")
	}
	if _, err := bot.Request(wh); err != nil {
		return errors.Wrap(err, "failed to register webhook")
	}

	updates := bot.ListenForWebhook("/" + t.cfg.BotToken)
	http.HandleFunc("/health", handleHealth)

	readTimeout, err := config.DurationOrDefault(t.serverCfg.ReadTimeout, config.DefaultServerReadTimeout)
	if err != nil {
		return errors.Wrap(err, "parse server read timeout")
	}
	writeTimeout, err := config.DurationOrDefault(t.serverCfg.WriteTimeout, config.DefaultServerWriteTimeout)
	if err != nil {
		return errors.Wrap(err, "parse server write timeout")
	}
	idleTimeout, err := config.DurationOrDefault(t.serverCfg.IdleTimeout, config.DefaultServerIdleTimeout)
	if err != nil {
		return errors.Wrap(err, "parse server idle timeout")
	}
	t.shutdownTTL, err = config.DurationOrDefault(t.serverCfg.ShutdownTimeout, config.DefaultServerShutdownTimeout)
	if err != nil {
		return errors.Wrap(err, "parse server shutdown timeout")
	}

	t.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", t.serverCfg.Port),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		slog.Info("Webhook server listening", "addr", t.server.Addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Webhook server failed", "error", err)
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				go t.handleUpdate(ctx, update)
			}
		}
	}()

	slog.Info("Telegram adapter started", "user", bot.Self.UserName, "webhook", webhookURL)
	return nil
}

func (t *TelegramAdapter) Stop(ctx context.Context) error {
	if t.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, t.shutdownTTL)
	defer cancel()

	if err := t.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "webhook server shutdown")
	}

	slog.Info("Telegram adapter stopped")
	return nil
}

func (t *TelegramAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	if msg.From == nil || msg.IsCommand() || msg.Text == "" {
		// Command routing and non-text payloads are not this bot's business.
		return
	}

	sessionID := strconv.FormatInt(msg.Chat.ID, 10)

	// Best-effort typing indicator while generation runs.
	if _, err := t.bot.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		slog.Debug("Typing action failed", "chat_id", sessionID, "error", err)
	}

	metadata := map[string]string{
		"user_id":   strconv.FormatInt(msg.From.ID, 10),
		"user_name": msg.From.UserName,
		"msg_id":    strconv.Itoa(msg.MessageID),
	}

	if t.eventHandler != nil {
		t.eventHandler(ctx, sessionID, msg.Text, metadata)
	}
}

// Send delivers content with Markdown parse mode so pipe-and-dash tables come
// through. When Telegram rejects the model's markup, the chunk is resent once
// as plain text instead of failing the invocation.
func (t *TelegramAdapter) Send(ctx context.Context, sessionID string, content string) error {
	chatID, err := strconv.ParseInt(sessionID, 10, 64)
	if err != nil {
		return errors.Internal("invalid telegram session id: " + err.Error())
	}

	log := slog.With("trace_id", logger.GetTraceID(ctx), "chat_id", sessionID)

	for _, chunk := range splitMessage(content, telegramMessageLimit) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := t.bot.Send(msg); err != nil {
			log.Debug("Markdown send rejected, retrying as plain text", "error", err)
			plain := tgbotapi.NewMessage(chatID, chunk)
			if _, err := t.bot.Send(plain); err != nil {
				return errors.Wrap(err, "failed to send telegram message")
			}
		}
	}

	log.Debug("Telegram message sent", "chars", len(content))
	return nil
}

func (t *TelegramAdapter) Health(ctx context.Context) error {
	if t.bot == nil {
		return errors.Transport("telegram bot not initialized")
	}

	if _, err := t.bot.GetMe(); err != nil {
		return errors.Transport("telegram connection failed: " + err.Error())
	}

	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// splitMessage cuts content into chunks Telegram will accept, preferring
// newline boundaries and never splitting a UTF-8 sequence.
func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	for len(content) > limit {
		cut := strings.LastIndex(content[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
		}
		chunks = append(chunks, content[:cut])
		content = strings.TrimPrefix(content[cut:], "\n")
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}
