package client

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session adalah state login yang dibawa eksplisit antar controller,
// pengganti key token/userId/userEmail/userFirstName yang dulu tersebar
// di browser storage. Field JSON mempertahankan nama key lamanya.
type Session struct {
	Token     string `json:"token"`
	UserID    int    `json:"userId"`
	Email     string `json:"userEmail"`
	FirstName string `json:"userFirstName"`
	Name      string `json:"userName"`
}

// Claims adalah identitas yang tertanam di token bearer.
type Claims struct {
	UserID    int
	Email     string
	FirstName string
	ExpiresAt time.Time
}

// DecodeClaims membaca claims dari token tanpa verifikasi signature.
// Verifikasi adalah urusan server; di sisi client decode hanya dipakai
// untuk cek expiry dan menampilkan identitas.
func DecodeClaims(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	var claims Claims
	if v, ok := mc["user_id"].(float64); ok {
		claims.UserID = int(v)
	}
	if v, ok := mc["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mc["first_name"].(string); ok {
		claims.FirstName = v
	}
	if v, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(v), 0)
	}
	return claims, nil
}

// IsAuthenticated: false jika token kosong, gagal di-decode, atau sudah
// kadaluarsa; selain itu true.
func (s Session) IsAuthenticated() bool {
	if s.Token == "" {
		return false
	}
	claims, err := DecodeClaims(s.Token)
	if err != nil {
		return false
	}
	return claims.ExpiresAt.After(time.Now())
}

// CurrentUser mengekstrak identitas dari token sesi.
// Gagal decode diperlakukan sebagai tidak login, bukan error fatal.
func (s Session) CurrentUser() (Claims, bool) {
	if !s.IsAuthenticated() {
		return Claims{}, false
	}
	claims, err := DecodeClaims(s.Token)
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}
