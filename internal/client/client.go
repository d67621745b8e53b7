// Package client adalah sisi konsumen dari API taskboard: wrapper HTTP
// JSON, modul auth/sesi, dan modul akses task yang dipakai aplikasi web.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError membawa status HTTP dan message dari server
// supaya view controller bisa menampilkannya langsung ke user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope adalah format response standar API:
// {message, success, status, data}
type envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

// Client melakukan request JSON ke API lewat base URL yang dikonfigurasi.
// Satu kali percobaan per panggilan: tidak ada retry maupun backoff.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// Do mengirim satu request JSON. Body boleh nil, token boleh kosong
// untuk endpoint publik, dan out boleh nil jika data response tidak
// diperlukan. Response non-2xx diterjemahkan menjadi *APIError dengan
// message dari server, atau fallback dari status HTTP-nya.
func (c *Client) Do(method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// kegagalan jaringan dikembalikan apa adanya
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	// body yang bukan JSON dibiarkan, message fallback yang dipakai
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
