package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestHandleCallbackQueryWithoutMessage(t *testing.T) {
	b := &Bot{}
	assert.NotPanics(t, func() {
		b.HandleCallbackQuery(&tgbotapi.CallbackQuery{ID: "stale"})
	})
}

func TestHandleUpdateWithoutSender(t *testing.T) {
	b := &Bot{}

	assert.Equal(t, "", b.HandleUpdate(tgbotapi.Update{}))

	channelPost := tgbotapi.Update{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}
	assert.Equal(t, "", b.HandleUpdate(channelPost))
}
