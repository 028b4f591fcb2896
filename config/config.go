package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_token", "TELEGRAM_TOKEN")
		viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
		viper.BindEnv("gpt_model", "GPT_MODEL")
		viper.BindEnv("openai_api_url", "OPENAI_API_URL")
		viper.BindEnv("coingecko_api_url", "COINGECKO_API_URL")
		viper.BindEnv("database_url", "DATABASE_URL")
		viper.BindEnv("db_host", "DB_HOST")
		viper.BindEnv("db_name", "DB_NAME")
		viper.BindEnv("db_user", "DB_USER")
		viper.BindEnv("db_password", "DB_PASSWORD")
		viper.BindEnv("db_port", "DB_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("debug", "DEBUG")

		viper.SetDefault("gpt_model", "gpt-3.5-turbo-0125")
		viper.SetDefault("openai_api_url", "https://api.openai.com/v1/chat/completions")
		viper.SetDefault("coingecko_api_url", "https://api.coingecko.com/api/v3")
		viper.SetDefault("db_host", "localhost")
		viper.SetDefault("db_name", "crypto_bot")
		viper.SetDefault("db_user", "postgres")
		viper.SetDefault("db_password", "")
		viper.SetDefault("db_port", 5432)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("debug", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
