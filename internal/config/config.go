package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl              string
	Port               string
	JWTSecret          string
	RedisAddr          string
	RedisPassword      string
	ExchangeRateAPIURL string
	FrankfurterAPIURL  string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	exchangeAPI := os.Getenv("EXCHANGE_RATE_API_URL")
	if exchangeAPI == "" {
		exchangeAPI = "https://api.exchangerate-api.com/v4/latest"
	}

	frankfurterAPI := os.Getenv("FRANKFURTER_API_URL")
	if frankfurterAPI == "" {
		frankfurterAPI = "https://api.frankfurter.app/latest"
	}

	return Config{
		DBUrl:              os.Getenv("DB_URL"),
		Port:               port,
		JWTSecret:          jwtSecret,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		ExchangeRateAPIURL: exchangeAPI,
		FrankfurterAPIURL:  frankfurterAPI,
	}
}
