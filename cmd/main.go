package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"crypto-summary-bot/config"
	"crypto-summary-bot/internal/alert"
	"crypto-summary-bot/internal/database"
	"crypto-summary-bot/internal/market"
	"crypto-summary-bot/internal/scheduler"
	"crypto-summary-bot/internal/summary"
	"crypto-summary-bot/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

type BotMetrics struct {
	CommandsProcessed prometheus.Counter
	MessagesHandled   prometheus.Counter
}

var metrics = NewBotMetrics()

func init() {
	_ = godotenv.Load()
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	m := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptobot",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptobot",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
	}

	prometheus.MustRegister(m.CommandsProcessed)
	prometheus.MustRegister(m.MessagesHandled)

	return m
}

func main() {
	market.SetBaseURL(config.GetString("coingecko_api_url"))
	summary.SetAPIURL(config.GetString("openai_api_url"))

	if err := database.InitDB(database.DSN()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if err := scheduler.Start(bot); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	bot.OnScheduleChange = func(userID int64, tz, at string) {
		if err := scheduler.ScheduleDailySummary(bot, userID, tz, at); err != nil {
			log.Errorf("Failed to reschedule daily summary for user %d: %v", userID, err)
		}
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		scheduler.Stop()
		SaveMetricsToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting crypto summary bot...")
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.CallbackQuery != nil {
			bot.HandleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			log.Debug("Received non-message or non-command")
			continue
		}

		if !update.Message.IsCommand() {
			continue
		}

		metrics.MessagesHandled.Inc()
		handleCommand(bot, update)
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	text := bot.HandleUpdate(update)
	if text == "" {
		metrics.CommandsProcessed.Inc()
		return
	}

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	pairs := []struct {
		name    string
		counter prometheus.Counter
	}{
		{"commands_processed", metrics.CommandsProcessed},
		{"messages_handled", metrics.MessagesHandled},
		{"alerts_triggered", alert.TriggeredTotal},
		{"summaries_sent", scheduler.SummariesSentTotal},
	}

	for _, p := range pairs {
		value, err := database.GetMetric(p.name)
		if err != nil {
			log.Errorf("Failed to load metric %s: %v", p.name, err)
			continue
		}
		p.counter.Add(value)
	}

	log.Println("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	pairs := []struct {
		name    string
		counter prometheus.Counter
	}{
		{"commands_processed", metrics.CommandsProcessed},
		{"messages_handled", metrics.MessagesHandled},
		{"alerts_triggered", alert.TriggeredTotal},
		{"summaries_sent", scheduler.SummariesSentTotal},
	}

	for _, p := range pairs {
		if err := database.SaveMetric(p.name, GetMetricValue(p.counter)); err != nil {
			log.Errorf("Failed to save metric %s: %v", p.name, err)
		}
	}

	log.Println("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
