package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/faceforge/faceforge/internal/logger"
)

// WorkerPool processes messages and button callbacks concurrently. Per-user
// ordering is not its job; the engine serializes per-user state transitions
// with its own locks.
type WorkerPool struct {
	bot                 *Bot
	messageQueue        chan *tgbotapi.Message
	callbackQueue       chan *tgbotapi.CallbackQuery
	messageWorkerCount  int
	callbackWorkerCount int

	// Bounds concurrent face fetches across all workers
	opSemaphore chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex
}

// WorkerPoolConfig holds configuration for the worker pool
type WorkerPoolConfig struct {
	MessageWorkers    int
	CallbackWorkers   int
	MessageQueueSize  int
	CallbackQueueSize int
	MaxConcurrentOps  int
}

// DefaultWorkerPoolConfig returns a sensible default configuration
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		MessageWorkers:    8,
		CallbackWorkers:   8,
		MessageQueueSize:  100,
		CallbackQueueSize: 100,
		MaxConcurrentOps:  10, // face fetches block for up to 10s each
	}
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(bot *Bot, config WorkerPoolConfig) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		bot:                 bot,
		messageQueue:        make(chan *tgbotapi.Message, config.MessageQueueSize),
		callbackQueue:       make(chan *tgbotapi.CallbackQuery, config.CallbackQueueSize),
		messageWorkerCount:  config.MessageWorkers,
		callbackWorkerCount: config.CallbackWorkers,
		opSemaphore:         make(chan struct{}, config.MaxConcurrentOps),
		ctx:                 ctx,
		cancel:              cancel,
	}
}

// Start launches all worker goroutines.
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return fmt.Errorf("worker pool already started")
	}

	logger.Info("Starting worker pool", map[string]interface{}{
		"message_workers":    wp.messageWorkerCount,
		"callback_workers":   wp.callbackWorkerCount,
		"max_concurrent_ops": cap(wp.opSemaphore),
	})

	for i := 0; i < wp.messageWorkerCount; i++ {
		wp.wg.Add(1)
		go wp.messageWorker(i)
	}

	for i := 0; i < wp.callbackWorkerCount; i++ {
		wp.wg.Add(1)
		go wp.callbackWorker(i)
	}

	wp.started = true
	return nil
}

// Stop gracefully shuts down the worker pool
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	close(wp.messageQueue)
	close(wp.callbackQueue)
	wp.cancel()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoMsg("Worker pool stopped gracefully")
	case <-time.After(30 * time.Second):
		logger.WarnMsg("Worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown timed out")
	}

	wp.started = false
	return nil
}

// SubmitMessage queues a message for processing. A full queue drops the
// message rather than blocking the update loop.
func (wp *WorkerPool) SubmitMessage(message *tgbotapi.Message) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	select {
	case wp.messageQueue <- message:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	default:
		logger.Warn("Message queue full, dropping message", map[string]interface{}{
			"chat_id": message.Chat.ID,
		})
		return fmt.Errorf("message queue full")
	}
}

// SubmitCallback queues a callback query for processing.
func (wp *WorkerPool) SubmitCallback(callback *tgbotapi.CallbackQuery) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.started {
		return fmt.Errorf("worker pool not started")
	}

	select {
	case wp.callbackQueue <- callback:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	default:
		logger.Warn("Callback queue full, dropping callback", map[string]interface{}{
			"chat_id":     callback.Message.Chat.ID,
			"callback_id": callback.ID,
		})
		return fmt.Errorf("callback queue full")
	}
}

func (wp *WorkerPool) messageWorker(workerID int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Message worker panic recovered", map[string]interface{}{
				"worker_id": workerID,
				"panic":     r,
			})
		}
		wp.wg.Done()
	}()

	for {
		select {
		case message, ok := <-wp.messageQueue:
			if !ok {
				return
			}
			wp.processMessage(message, workerID)

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) callbackWorker(workerID int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Callback worker panic recovered", map[string]interface{}{
				"worker_id": workerID,
				"panic":     r,
			})
		}
		wp.wg.Done()
	}()

	for {
		select {
		case callback, ok := <-wp.callbackQueue:
			if !ok {
				return
			}
			wp.processCallback(callback, workerID)

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processMessage(message *tgbotapi.Message, workerID int) {
	select {
	case wp.opSemaphore <- struct{}{}:
		defer func() { <-wp.opSemaphore }()
	case <-wp.ctx.Done():
		return
	}

	startTime := time.Now()

	if err := wp.bot.handleMessage(message); err != nil {
		logger.Error("Error processing message", map[string]interface{}{
			"worker_id": workerID,
			"error":     err.Error(),
			"chat_id":   message.Chat.ID,
		})
		wp.bot.sendErrorResponse(message.Chat.ID, err)
	}

	logger.Debug("Message processed", map[string]interface{}{
		"worker_id": workerID,
		"chat_id":   message.Chat.ID,
		"duration":  time.Since(startTime).String(),
	})
}

func (wp *WorkerPool) processCallback(callback *tgbotapi.CallbackQuery, workerID int) {
	select {
	case wp.opSemaphore <- struct{}{}:
		defer func() { <-wp.opSemaphore }()
	case <-wp.ctx.Done():
		return
	}

	startTime := time.Now()

	if err := wp.bot.handleCallbackQuery(callback); err != nil {
		logger.Error("Error processing callback", map[string]interface{}{
			"worker_id":   workerID,
			"error":       err.Error(),
			"chat_id":     callback.Message.Chat.ID,
			"callback_id": callback.ID,
		})
		wp.bot.sendErrorResponse(callback.Message.Chat.ID, err)
	}

	logger.Debug("Callback processed", map[string]interface{}{
		"worker_id": workerID,
		"chat_id":   callback.Message.Chat.ID,
		"duration":  time.Since(startTime).String(),
	})
}

// GetStats returns current worker pool statistics
func (wp *WorkerPool) GetStats() map[string]interface{} {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return map[string]interface{}{
		"started":                 wp.started,
		"message_queue_size":      len(wp.messageQueue),
		"callback_queue_size":     len(wp.callbackQueue),
		"message_queue_capacity":  cap(wp.messageQueue),
		"callback_queue_capacity": cap(wp.callbackQueue),
		"active_operations":       len(wp.opSemaphore),
		"max_concurrent_ops":      cap(wp.opSemaphore),
		"message_workers":         wp.messageWorkerCount,
		"callback_workers":        wp.callbackWorkerCount,
	}
}
