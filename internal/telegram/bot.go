package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/faceforge/faceforge/internal/config"
	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/logger"
)

// Bot bridges Telegram updates and the entitlement engine. It normalizes
// messages and button clicks into engine events and implements the engine's
// outbound Channel over rate-limited Telegram sends.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *entitlement.Engine
	config *config.Config

	// Rate limiting
	globalLimiter  *rate.Limiter           // whole-bot send budget
	userLimiters   map[int64]*rate.Limiter // per-chat send budget
	userLimitersMu sync.RWMutex
	cleanupStarted bool

	// Callback deduplication
	processedCallbacks map[string]time.Time
	callbacksMu        sync.RWMutex

	// Worker pool for concurrent update processing
	workerPool *WorkerPool
}

func NewBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Bot{
		api:    api,
		config: cfg,

		globalLimiter: rate.NewLimiter(rate.Limit(30), 30), // Telegram allows ~30 msg/sec overall
		userLimiters:  make(map[int64]*rate.Limiter),

		processedCallbacks: make(map[string]time.Time),
	}, nil
}

// SetEngine attaches the entitlement engine. Must be called before Start;
// construction is split because the engine's outbound channel is the bot
// itself.
func (b *Bot) SetEngine(engine *entitlement.Engine) {
	b.engine = engine
}

func (b *Bot) Start() error {
	if b.engine == nil {
		return fmt.Errorf("bot started without an engine")
	}

	logger.Info("Bot authorized and starting", map[string]interface{}{
		"username": b.api.Self.UserName,
	})

	b.workerPool = NewWorkerPool(b, DefaultWorkerPoolConfig())
	if err := b.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			if err := b.workerPool.SubmitCallback(update.CallbackQuery); err != nil {
				logger.Error("Failed to submit callback to worker pool", map[string]interface{}{
					"error":       err.Error(),
					"chat_id":     update.CallbackQuery.Message.Chat.ID,
					"callback_id": update.CallbackQuery.ID,
				})
			}
			continue
		}

		if update.Message == nil {
			continue
		}

		if err := b.workerPool.SubmitMessage(update.Message); err != nil {
			logger.Error("Failed to submit message to worker pool", map[string]interface{}{
				"error":   err.Error(),
				"chat_id": update.Message.Chat.ID,
			})
		}
	}

	return nil
}

// Stop gracefully shuts down the bot and its worker pool
func (b *Bot) Stop() error {
	logger.InfoMsg("Stopping bot...")

	b.api.StopReceivingUpdates()

	if b.workerPool != nil {
		if err := b.workerPool.Stop(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	}

	logger.InfoMsg("Bot stopped successfully")
	return nil
}

// handleMessage turns one inbound message into an engine event.
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	if message.Text == "" {
		// Photos, stickers and the like carry no entitlement meaning
		return nil
	}

	if strings.HasPrefix(message.Text, "/") {
		return b.handleCommand(message)
	}

	// Free text is username input while a name is awaited; the engine
	// decides and replies with a help prompt otherwise
	return b.engine.Dispatch(entitlement.Event{
		Kind:   entitlement.EventUsernameInput,
		UserID: message.Chat.ID,
		Text:   message.Text,
	})
}

func (b *Bot) sendErrorResponse(chatID int64, err error) {
	logger.Error("Replying with generic failure", map[string]interface{}{
		"error":   err.Error(),
		"chat_id": chatID,
	})
	b.sendText(chatID, consts.ErrorGenericFailure)
}

// getUserRateLimiter returns the per-chat limiter, creating it on first use.
func (b *Bot) getUserRateLimiter(chatID int64) *rate.Limiter {
	b.userLimitersMu.RLock()
	limiter, exists := b.userLimiters[chatID]
	b.userLimitersMu.RUnlock()

	if !exists {
		b.userLimitersMu.Lock()
		// Double-check in case another goroutine created it
		if limiter, exists = b.userLimiters[chatID]; !exists {
			limiter = rate.NewLimiter(rate.Limit(1), 3) // Telegram allows ~1 msg/sec per chat
			b.userLimiters[chatID] = limiter

			if !b.cleanupStarted {
				b.cleanupStarted = true
				go b.cleanupUserLimiters()
			}
		}
		b.userLimitersMu.Unlock()
	}

	return limiter
}

// cleanupUserLimiters bounds the limiter map so long-running processes do not
// accumulate one limiter per chat forever.
func (b *Bot) cleanupUserLimiters() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		b.userLimitersMu.Lock()
		if len(b.userLimiters) > 1000 {
			logger.Debug("Resetting user rate limiter map", map[string]interface{}{
				"limiter_count": len(b.userLimiters),
			})
			b.userLimiters = make(map[int64]*rate.Limiter)
		}
		b.userLimitersMu.Unlock()
	}
}

// rateLimitedSend sends any chattable with global and per-chat rate limiting.
func (b *Bot) rateLimitedSend(chatID int64, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := b.globalLimiter.Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("global rate limiter error: %w", err)
	}

	if err := b.getUserRateLimiter(chatID).Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("user rate limiter error: %w", err)
	}

	return b.api.Send(msg)
}

// rateLimitedRequest answers a callback query with rate limiting.
func (b *Bot) rateLimitedRequest(chatID int64, req tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error) {
	if err := b.globalLimiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("global rate limiter error: %w", err)
	}

	if err := b.getUserRateLimiter(chatID).Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("user rate limiter error: %w", err)
	}

	return b.api.Request(req)
}

// isDuplicateCallback reports whether this callback id was already handled
// recently. Telegram redelivers callbacks when answering is slow.
func (b *Bot) isDuplicateCallback(callbackID string) bool {
	b.callbacksMu.RLock()
	defer b.callbacksMu.RUnlock()
	_, exists := b.processedCallbacks[callbackID]
	return exists
}

func (b *Bot) markCallbackProcessed(callbackID string) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()

	b.processedCallbacks[callbackID] = time.Now()

	// Drop stale entries in place instead of running a sweeper goroutine
	if len(b.processedCallbacks) > 500 {
		cutoff := time.Now().Add(-10 * time.Minute)
		for id, seen := range b.processedCallbacks {
			if seen.Before(cutoff) {
				delete(b.processedCallbacks, id)
			}
		}
	}
}
