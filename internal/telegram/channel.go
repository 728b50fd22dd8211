package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/logger"
)

// The bot is the engine's outbound channel.

// SendText delivers a text reply, with one inline keyboard row per button row.
func (b *Bot) SendText(userID int64, text string, rows ...[]entitlement.Button) error {
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = consts.ParseModeHTML

	if len(rows) > 0 {
		msg.ReplyMarkup = buildKeyboard(rows)
	}

	if _, err := b.rateLimitedSend(userID, msg); err != nil {
		logger.Error("Failed to send message", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": userID,
		})
		return err
	}
	return nil
}

// SendPhoto delivers an image from raw bytes with a caption.
func (b *Bot) SendPhoto(userID int64, photo []byte, caption string) error {
	msg := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{
		Name:  "face.jpg",
		Bytes: photo,
	})
	msg.Caption = caption

	if _, err := b.rateLimitedSend(userID, msg); err != nil {
		logger.Error("Failed to send photo", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": userID,
			"bytes":   len(photo),
		})
		return err
	}
	return nil
}

// sendText is the plain variant used for bot-level replies outside the engine.
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = consts.ParseModeHTML
	if _, err := b.rateLimitedSend(chatID, msg); err != nil {
		logger.Error("Failed to send message", map[string]interface{}{
			"error":   err.Error(),
			"chat_id": chatID,
		})
	}
}

// editMessage rewrites a previously sent message, used when a button click
// replaces its prompt.
func (b *Bot) editMessage(chatID int64, messageID int, text string, rows ...[]entitlement.Button) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = consts.ParseModeHTML
	if len(rows) > 0 {
		markup := buildKeyboard(rows)
		edit.ReplyMarkup = &markup
	}

	if _, err := b.rateLimitedSend(chatID, edit); err != nil {
		logger.Error("Failed to edit message", map[string]interface{}{
			"error":      err.Error(),
			"chat_id":    chatID,
			"message_id": messageID,
		})
	}
}

func buildKeyboard(rows [][]entitlement.Button) tgbotapi.InlineKeyboardMarkup {
	var keyboardRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboardRows...)
}
