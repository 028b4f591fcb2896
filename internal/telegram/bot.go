package telegram

import (
	"fmt"
	"strings"

	"crypto-summary-bot/internal/commands"
	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/lib/helpers"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const welcomeText = "👋 Crypto Summary Bot\nPick a function:"

const helpText = "ℹ️ Help\n\n" +
	"Commands:\n" +
	"/start - main menu\n" +
	"/summary - AI market recap\n" +
	"/gainers - top 24h movers\n" +
	"/price <coin> - coin price\n" +
	"/chart <coin> - 7 day price chart\n" +
	"/buy <coin> <amount> <price> - record a purchase\n" +
	"/sell <coin> <amount> <price> - record a sale\n" +
	"/portfolio - portfolio overview\n" +
	"/transactions - recent transactions\n" +
	"/alert <coin> <op> <price> - add a price alert\n" +
	"/myalerts - list your alerts\n" +
	"/delete <ID> - delete an alert\n" +
	"/settime HH:MM - daily summary time\n\n" +
	"Not financial advice"

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a MarkdownV2 telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", m.ChatID)
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.Bot.Send(msg); err != nil {
		log.Errorf("failed to send keyboard message: %v", err)
	}
}

// HandleUpdate processes one Telegram update and returns the reply text.
// An empty return means the handler already sent its own reply.
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	// Channel posts carry no sender.
	if u.Message == nil || u.Message.From == nil {
		return ""
	}

	userID := u.Message.From.ID
	chatID := u.Message.Chat.ID
	args := u.Message.CommandArguments()

	log.Debugf("received command: %s", u.Message.Command())

	text := helpers.EscapeMarkdownV2(helpText)
	var err error

	switch u.Message.Command() {
	case "start":
		if err = database.UpsertUser(userID, "", ""); err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2("Something went wrong. Please try again later.")
		}
		b.sendWithKeyboard(chatID, welcomeText, mainMenuKeyboard())
		return ""

	case "help":
		// default text already set

	case "summary":
		if text, err = commands.CommandSummary(); err != nil {
			text = helpers.EscapeMarkdownV2("Could not generate a market summary right now. Please try again later.")
			log.Error(err)
		}

	case "gainers":
		if text, err = commands.CommandGainers(); err != nil {
			text = helpers.EscapeMarkdownV2("Could not fetch market data right now. Please try again later.")
			log.Error(err)
		}

	case "price":
		if text, err = commands.CommandPrice(args); err != nil {
			text = helpers.EscapeMarkdownV2("Could not fetch market data right now. Please try again later.")
			log.Error(err)
		}

	case "chart":
		chartData, caption, chartErr := commands.CommandChart(args)
		if chartErr != nil {
			log.Error(chartErr)
			return helpers.EscapeMarkdownV2("Could not render a chart right now. Please try again later.")
		}
		if chartData == nil {
			return caption
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  "chart.png",
			Bytes: chartData,
		})
		photo.Caption = caption
		photo.ParseMode = "MarkdownV2"
		photo.ReplyToMessageID = u.Message.MessageID
		if _, err := b.Bot.Send(photo); err != nil {
			log.Error("error sending chart:", err)
		}
		return ""

	case "buy":
		if text, err = commands.CommandBuy(userID, args); err != nil {
			text = helpers.EscapeMarkdownV2("Could not record the purchase. Please try again later.")
			log.Error(err)
		}

	case "sell":
		if text, err = commands.CommandSell(userID, args); err != nil {
			text = helpers.EscapeMarkdownV2("Could not record the sale. Please try again later.")
			log.Error(err)
		}

	case "portfolio":
		if text, err = commands.CommandPortfolio(userID); err != nil {
			text = helpers.EscapeMarkdownV2("Could not load your portfolio. Please try again later.")
			log.Error(err)
		}

	case "transactions":
		if text, err = commands.CommandTransactions(userID); err != nil {
			text = helpers.EscapeMarkdownV2("Could not load your transactions. Please try again later.")
			log.Error(err)
		}

	case "alert":
		if text, err = commands.CommandAlert(userID, args); err != nil {
			text = helpers.EscapeMarkdownV2("Could not save the alert. Please try again later.")
			log.Error(err)
		}

	case "myalerts":
		if text, err = commands.CommandMyAlerts(userID); err != nil {
			text = helpers.EscapeMarkdownV2("Could not load your alerts. Please try again later.")
			log.Error(err)
		}

	case "delete":
		if text, err = commands.CommandDelete(userID, args); err != nil {
			text = helpers.EscapeMarkdownV2("Could not delete the alert. Please try again later.")
			log.Error(err)
		}

	case "settime":
		return b.handleSetTime(userID, chatID, args)
	}

	return text
}

func (b *Bot) handleSetTime(userID, chatID int64, args string) string {
	if strings.TrimSpace(args) != "" {
		reply, hhmm, tz, err := commands.CommandSetTime(userID, args)
		if err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2("Could not save your summary time. Please try again later.")
		}
		if hhmm != "" && b.OnScheduleChange != nil {
			b.OnScheduleChange(userID, tz, hhmm)
		}
		return reply
	}

	user, err := database.GetUser(userID)
	if err != nil {
		log.Error(err)
		return helpers.EscapeMarkdownV2("Could not load your settings. Please try again later.")
	}

	if user == nil || user.TZ == "" {
		b.sendWithKeyboard(chatID, "Choose your timezone:", timezoneKeyboard())
		return ""
	}
	return commands.CurrentScheduleText(user.SummaryAt, user.TZ)
}

// HandleCallbackQuery drives the inline-keyboard menu.
func (b *Bot) HandleCallbackQuery(q *tgbotapi.CallbackQuery) {
	// Stale queries arrive without the originating message.
	if q.Message == nil {
		log.Debugf("callback query %s has no message, ignoring", q.ID)
		return
	}

	data := q.Data
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID

	if _, err := b.Bot.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Debugf("failed to answer callback query: %v", err)
	}

	switch {
	case data == "main_menu":
		b.editPlain(chatID, messageID, welcomeText, mainMenuKeyboard())

	case data == "summary":
		text, err := commands.CommandSummary()
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not generate a market summary right now.", backKeyboard())
			return
		}
		b.editMarkdown(chatID, messageID, text, backKeyboard())

	case data == "gainers":
		text, err := commands.CommandGainers()
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not fetch market data right now.", backKeyboard())
			return
		}
		b.editMarkdown(chatID, messageID, text, backKeyboard())

	case data == "price_search":
		b.editPlain(chatID, messageID,
			"💰 Coin lookup\n\nUse the command: /price <symbol>\nFor example: /price btc", backKeyboard())

	case data == "alerts":
		b.editPlain(chatID, messageID,
			"🔔 Price alerts\n\nManage notifications that fire when a coin crosses a target price.", alertsKeyboard())

	case data == "add_alert":
		b.editPlain(chatID, messageID,
			"➕ Add alert\n\nUse the command:\n/alert <coin> <operator> <price>\n\n"+
				"Examples:\n/alert btc > 50000\n/alert eth < 3000\n\nOperators: >, <, above, below", backKeyboard())

	case data == "list_alerts":
		text, err := commands.CommandMyAlerts(userID)
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not load your alerts right now.", backKeyboard())
			return
		}
		b.editMarkdown(chatID, messageID, text, backKeyboard())

	case data == "portfolio":
		b.editPlain(chatID, messageID,
			"💼 Portfolio\n\nTrack your cryptocurrency holdings and P&L.", portfolioKeyboard())

	case data == "portfolio_overview":
		text, err := commands.CommandPortfolio(userID)
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not load your portfolio right now.", backKeyboard())
			return
		}
		b.editMarkdown(chatID, messageID, text, backKeyboard())

	case data == "transactions_list":
		text, err := commands.CommandTransactions(userID)
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not load your transactions right now.", backKeyboard())
			return
		}
		b.editMarkdown(chatID, messageID, text, backKeyboard())

	case data == "add_buy":
		b.editPlain(chatID, messageID,
			"➕ Record a buy\n\nUse the command:\n/buy <coin> <amount> <price>\n\n"+
				"Examples:\n/buy btc 0.1 50000\n/buy eth 2.5 3000", backKeyboard())

	case data == "add_sell":
		b.editPlain(chatID, messageID,
			"➖ Record a sell\n\nUse the command:\n/sell <coin> <amount> <price>\n\n"+
				"Examples:\n/sell btc 0.05 55000\n/sell eth 1.0 3200", backKeyboard())

	case data == "settime":
		user, err := database.GetUser(userID)
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not load your settings right now.", backKeyboard())
			return
		}
		if user == nil || user.TZ == "" {
			b.editPlain(chatID, messageID, "Choose your timezone:", timezoneKeyboard())
			return
		}
		b.editPlain(chatID, messageID,
			fmt.Sprintf("Current time: %s (%s)\n\nChoose a new time:", user.SummaryAt, user.TZ), timeKeyboard())

	case data == "help":
		b.editPlain(chatID, messageID, helpText, backKeyboard())

	case strings.HasPrefix(data, "tz|"):
		tz := strings.TrimPrefix(data, "tz|")
		if err := database.UpsertUser(userID, tz, "09:00"); err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not save your timezone right now.", backKeyboard())
			return
		}
		if b.OnScheduleChange != nil {
			b.OnScheduleChange(userID, tz, "09:00")
		}
		b.editPlain(chatID, messageID,
			fmt.Sprintf("Timezone set to %s. Default time 09:00.\n\nChoose a daily summary time:", tz), timeKeyboard())

	case strings.HasPrefix(data, "time|"):
		at := strings.TrimPrefix(data, "time|")
		user, err := database.GetUser(userID)
		if err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not save your summary time right now.", backKeyboard())
			return
		}
		tz := "UTC"
		if user != nil && user.TZ != "" {
			tz = user.TZ
		}
		if err := database.UpsertUser(userID, "", at); err != nil {
			log.Error(err)
			b.editPlain(chatID, messageID, "Could not save your summary time right now.", backKeyboard())
			return
		}
		if b.OnScheduleChange != nil {
			b.OnScheduleChange(userID, tz, at)
		}
		b.editPlain(chatID, messageID,
			fmt.Sprintf("✅ Time set to %s (%s)\n\nDaily summaries will arrive at that time.", at, tz), backKeyboard())

	default:
		log.Debugf("unknown callback action: %s", data)
	}
}

func (b *Bot) editPlain(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := b.Bot.Send(edit); err != nil {
		log.Errorf("failed to edit message: %v", err)
	}
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	edit.ParseMode = "MarkdownV2"
	if _, err := b.Bot.Send(edit); err != nil {
		log.Errorf("failed to edit message: %v", err)
	}
}
