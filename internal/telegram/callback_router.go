package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/logger"
)

// handleCallbackQuery routes inline button clicks to engine events.
func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) error {
	logger.Debug("Handling callback query", map[string]interface{}{
		"callback_data": callback.Data,
		"chat_id":       callback.Message.Chat.ID,
		"callback_id":   callback.ID,
	})

	if b.isDuplicateCallback(callback.ID) {
		// Still answer the callback to stop the client spinner
		callbackConfig := tgbotapi.NewCallback(callback.ID, "")
		b.rateLimitedRequest(callback.Message.Chat.ID, callbackConfig)
		return nil
	}
	b.markCallbackProcessed(callback.ID)

	// Answer the callback query first
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.rateLimitedRequest(callback.Message.Chat.ID, callbackConfig); err != nil {
		logger.Error("Failed to answer callback query", map[string]interface{}{
			"error": err.Error(),
		})
	}

	userID := callback.Message.Chat.ID

	switch callback.Data {
	case consts.CallbackAgree:
		// Collapse the disclaimer so the buttons cannot be clicked twice
		b.editMessage(userID, callback.Message.MessageID, AgreedNoticeMsg)
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventConsent,
			UserID: userID,
			Agreed: true,
		})

	case consts.CallbackDisagree:
		b.editMessage(userID, callback.Message.MessageID, DeclinedNoticeMsg)
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventConsent,
			UserID: userID,
			Agreed: false,
		})

	case consts.CallbackWatchAd:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventWatchAd,
			UserID: userID,
		})

	case consts.CallbackBuySub:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventBuySubscription,
			UserID: userID,
		})

	// The simulated payment confirmations; a real gateway would invoke the
	// grant operations from its webhook instead
	case consts.CallbackBuyCredits:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventBuyCredits,
			UserID: userID,
		})

	case consts.CallbackBuyUnlimited:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventBuyUnlimited,
			UserID: userID,
		})

	case consts.CallbackStats:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventStats,
			UserID: userID,
		})
	}

	logger.Debug("Unhandled callback data", map[string]interface{}{
		"callback_data": callback.Data,
		"chat_id":       userID,
	})
	return nil
}
