package telegram

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/faceforge/faceforge/internal/config"
)

func newTestBot() *Bot {
	return &Bot{
		config: &config.Config{TelegramBotToken: "test_token"},
	}
}

func TestWorkerPoolCreation(t *testing.T) {
	bot := newTestBot()

	config := DefaultWorkerPoolConfig()
	wp := NewWorkerPool(bot, config)

	if wp == nil {
		t.Fatal("Worker pool should not be nil")
	}

	if wp.messageWorkerCount != config.MessageWorkers {
		t.Errorf("Expected %d message workers, got %d", config.MessageWorkers, wp.messageWorkerCount)
	}

	if wp.callbackWorkerCount != config.CallbackWorkers {
		t.Errorf("Expected %d callback workers, got %d", config.CallbackWorkers, wp.callbackWorkerCount)
	}

	if cap(wp.opSemaphore) != config.MaxConcurrentOps {
		t.Errorf("Expected %d max concurrent ops, got %d", config.MaxConcurrentOps, cap(wp.opSemaphore))
	}
}

func TestWorkerPoolStartStop(t *testing.T) {
	bot := newTestBot()

	wp := NewWorkerPool(bot, WorkerPoolConfig{
		MessageWorkers:    2,
		CallbackWorkers:   1,
		MessageQueueSize:  10,
		CallbackQueueSize: 5,
		MaxConcurrentOps:  3,
	})

	if err := wp.Start(); err != nil {
		t.Fatalf("Failed to start worker pool: %v", err)
	}

	stats := wp.GetStats()
	if !stats["started"].(bool) {
		t.Error("Worker pool should be marked as started")
	}

	// Starting again should fail
	if err := wp.Start(); err == nil {
		t.Error("Starting already started worker pool should return error")
	}

	time.Sleep(10 * time.Millisecond)

	if err := wp.Stop(); err != nil {
		t.Fatalf("Failed to stop worker pool: %v", err)
	}

	stats = wp.GetStats()
	if stats["started"].(bool) {
		t.Error("Worker pool should be marked as stopped")
	}
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	bot := newTestBot()
	wp := NewWorkerPool(bot, DefaultWorkerPoolConfig())

	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}
	if err := wp.SubmitMessage(msg); err == nil {
		t.Error("SubmitMessage before Start should return error")
	}

	cb := &tgbotapi.CallbackQuery{ID: "cb1", Message: msg}
	if err := wp.SubmitCallback(cb); err == nil {
		t.Error("SubmitCallback before Start should return error")
	}
}

func TestWorkerPoolProcessesMessages(t *testing.T) {
	bot := newTestBot()

	wp := NewWorkerPool(bot, WorkerPoolConfig{
		MessageWorkers:    1,
		CallbackWorkers:   1,
		MessageQueueSize:  5,
		CallbackQueueSize: 5,
		MaxConcurrentOps:  2,
	})

	if err := wp.Start(); err != nil {
		t.Fatalf("Failed to start worker pool: %v", err)
	}
	defer wp.Stop()

	// Messages without text are dropped by handleMessage without touching
	// the Telegram API, so they are safe to process in tests
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}}
	if err := wp.SubmitMessage(msg); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}

	// Wait for the queue to drain
	deadline := time.After(time.Second)
	for {
		if wp.GetStats()["message_queue_size"].(int) == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("message was never processed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
