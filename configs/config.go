package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string
	RedisHost  string
	RedisPort  int
	APIPort    int
	WebPort    int
	APIBaseURL string
	SessionKey string
	ViewsDir   string
}

// getEnvInt membaca environment variable sebagai integer,
// jika gagal gunakan nilai default
func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnvInt("DB_PORT", 10501),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBNameTest: os.Getenv("DB_NAME_TEST"),
		RedisHost:  os.Getenv("REDIS_HOST"),
		RedisPort:  getEnvInt("REDIS_PORT", 6379),
		APIPort:    getEnvInt("API_PORT", 3004),
		WebPort:    getEnvInt("WEB_PORT", 3005),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:3004/api/v1"),
		SessionKey: getEnv("SESSION_KEY", "TaskboardSessionKey!"),
		ViewsDir:   getEnv("VIEWS_DIR", "web/views"),
	}
}
