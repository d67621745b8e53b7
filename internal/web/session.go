package web

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskboard/internal/client"
	"taskboard/pkg/crypto"
)

const sessionCookie = "taskboard_session"

// Flash adalah notifikasi sekali tampil (pengganti toast):
// disimpan di cookie sesi, dirender sekali, lalu dihapus.
type Flash struct {
	Kind    string `json:"kind"` // "success" atau "error"
	Message string `json:"message"`
}

// cookiePayload adalah isi cookie sesi sebelum dienkripsi.
type cookiePayload struct {
	Session client.Session `json:"session"`
	Flash   *Flash         `json:"flash,omitempty"`
}

// CookieCodec menyegel sesi login menjadi satu cookie terenkripsi AES.
// Satu objek sesi eksplisit, bukan key-value yang tersebar.
type CookieCodec struct {
	Key string
}

// Read membaca dan membuka cookie sesi. Cookie yang hilang atau rusak
// diperlakukan sebagai tidak login, tanpa error.
func (cc *CookieCodec) Read(c *fiber.Ctx) (client.Session, *Flash) {
	raw := c.Cookies(sessionCookie)
	if raw == "" {
		return client.Session{}, nil
	}
	plain, err := crypto.Decrypt(raw, cc.Key)
	if err != nil {
		return client.Session{}, nil
	}
	var payload cookiePayload
	if err := json.Unmarshal([]byte(plain), &payload); err != nil {
		return client.Session{}, nil
	}
	return payload.Session, payload.Flash
}

// Write menyegel sesi (plus flash opsional) ke cookie.
func (cc *CookieCodec) Write(c *fiber.Ctx, s client.Session, flash *Flash) {
	payload, err := json.Marshal(cookiePayload{Session: s, Flash: flash})
	if err != nil {
		return
	}
	sealed, err := crypto.Encrypt(string(payload), cc.Key)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sealed,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// Clear menghapus cookie sesi.
func (cc *CookieCodec) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
