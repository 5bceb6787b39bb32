package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotAPI is the subset of *tgbotapi.BotAPI the bot uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger sends plain text messages; it satisfies notify.Sender.
type Messenger struct {
	bot BotAPI
}

func NewMessenger(bot BotAPI) *Messenger {
	return &Messenger{bot: bot}
}

// SendMessage sends a plain text message to the given chat.
func (m *Messenger) SendMessage(chatID int64, text string) error {
	_, err := m.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
