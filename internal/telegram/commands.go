package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/faceforge/faceforge/internal/consts"
	"github.com/faceforge/faceforge/internal/entitlement"
)

// Command router

func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	command := strings.TrimSpace(message.Text)

	// Strip bot mention suffix used in group chats (/generate@SomeBot)
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	switch command {
	case consts.CommandStart:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventStart,
			UserID: message.Chat.ID,
		})

	case consts.CommandGenerate:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventGenerate,
			UserID: message.Chat.ID,
		})

	case consts.CommandStats:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventStats,
			UserID: message.Chat.ID,
		})

	case consts.CommandHelp:
		return b.handleHelpCommand(message)

	default:
		return b.engine.Dispatch(entitlement.Event{
			Kind:   entitlement.EventUnknown,
			UserID: message.Chat.ID,
		})
	}
}

func (b *Bot) handleHelpCommand(message *tgbotapi.Message) error {
	return b.SendText(message.Chat.ID, HelpMsg)
}
