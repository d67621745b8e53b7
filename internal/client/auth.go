package client

import (
	"fmt"
	"time"
)

// AuthService membungkus operasi auth dan profil terhadap API.
type AuthService struct {
	api *Client
}

func NewAuthService(api *Client) *AuthService {
	return &AuthService{api: api}
}

// RegisterInput adalah data pendaftaran yang dikirim ke POST /users.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Password  string `json:"password"`
}

func (a *AuthService) Register(in RegisterInput) error {
	return a.api.Do("POST", "/users", "", in, nil)
}

// Login menukar kredensial dengan token bearer dan membangun Session.
func (a *AuthService) Login(email, password string) (Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var data struct {
		UserID    int    `json:"user_id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		Token     string `json:"token"`
	}
	if err := a.api.Do("POST", "/users/auth/login", "", body, &data); err != nil {
		return Session{}, err
	}
	return Session{
		Token:     data.Token,
		UserID:    data.UserID,
		Email:     data.Email,
		FirstName: data.FirstName,
		Name:      data.FirstName,
	}, nil
}

// Logout memanggil API secara best-effort; apapun hasilnya state lokal
// selalu dibersihkan, jadi error dari server diabaikan.
func (a *AuthService) Logout(s Session) Session {
	_ = a.api.Do("POST", "/users/auth/logout", s.Token, nil, nil)
	return Session{}
}

// Profile adalah data profil user dari API.
type Profile struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *AuthService) Profile(s Session) (Profile, error) {
	var p Profile
	err := a.api.Do("GET", fmt.Sprintf("/users/%d", s.UserID), s.Token, nil, &p)
	return p, err
}

// ProfileUpdate: field nil tidak dikirim dan tidak diubah di server.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (a *AuthService) UpdateProfile(s Session, in ProfileUpdate) (Profile, error) {
	var p Profile
	err := a.api.Do("PUT", fmt.Sprintf("/users/%d", s.UserID), s.Token, in, &p)
	return p, err
}

// DeleteAccount menghapus akun; server menolak jika password salah.
func (a *AuthService) DeleteAccount(s Session, password string) error {
	body := map[string]string{"password": password}
	return a.api.Do("DELETE", fmt.Sprintf("/users/%d", s.UserID), s.Token, body, nil)
}

// RequestReset meminta token reset password untuk email yang terdaftar.
func (a *AuthService) RequestReset(email string) error {
	body := map[string]string{"email": email}
	return a.api.Do("POST", "/users/auth/forgot-password", "", body, nil)
}

// ConfirmReset mengganti password memakai token dari link reset.
func (a *AuthService) ConfirmReset(token, password string) error {
	body := map[string]string{"password": password}
	return a.api.Do("POST", "/users/auth/reset-password/"+token, "", body, nil)
}
