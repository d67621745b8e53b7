package config

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	"taskboard/internal/forms"
	ws "taskboard/internal/websocket"
)

var (
	// Global dependency yang akan digunakan di seluruh aplikasi
	DB          *sql.DB
	SecretKey   = []byte("secret")
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
	Events      *ws.Hub
)

func init() {
	// Daftarkan aturan password kuat (min 8, huruf besar, huruf kecil,
	// angka, karakter spesial) supaya bisa dipakai lewat tag `password`
	_ = Validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return forms.StrongPassword(fl.Field().String())
	})
}
