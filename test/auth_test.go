package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegister(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("register_%d@example.com", time.Now().UnixNano())
	reqBody := map[string]interface{}{
		"first_name": "Register",
		"last_name":  "Tester",
		"email":      email,
		"age":        20,
		"password":   "Abcd123!",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status %d but got %d", http.StatusCreated, resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding register response: %v", err)
	}

	if result["data"] == nil {
		t.Errorf("Expected data field in response")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("weak_%d@example.com", time.Now().UnixNano())
	reqBody := map[string]interface{}{
		"first_name": "Weak",
		"email":      email,
		"age":        20,
		"password":   "abcdefgh", // tanpa huruf besar, angka, dan karakter spesial
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for weak password, got %d", resp.StatusCode)
	}
}

func TestRegisterRejectsUnderage(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("young_%d@example.com", time.Now().UnixNano())
	reqBody := map[string]interface{}{
		"first_name": "Young",
		"email":      email,
		"age":        12,
		"password":   "Abcd123!",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for underage user, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := CreateTestApp()
	_, _, email := CreateTestUser(app, t)

	reqBody := map[string]interface{}{
		"first_name": "Duplicate",
		"email":      email,
		"age":        20,
		"password":   "Abcd123!",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate email, got %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	app := CreateTestApp()
	_, _, email := CreateTestUser(app, t)

	loginBody := map[string]string{
		"email":    email,
		"password": "Abcd123!",
	}
	body, _ := json.Marshal(loginBody)

	req := httptest.NewRequest("POST", "/api/v1/users/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d but got %d", http.StatusOK, resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding login response: %v", err)
	}

	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in login response")
	}
	if data["token"] == nil {
		t.Errorf("Expected token in login response")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := CreateTestApp()
	_, _, email := CreateTestUser(app, t)

	loginBody := map[string]string{
		"email":    email,
		"password": "WrongPass1!",
	}
	body, _ := json.Marshal(loginBody)

	req := httptest.NewRequest("POST", "/api/v1/users/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong password, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	// Logout
	logoutReq := httptest.NewRequest("POST", "/api/v1/users/auth/logout", nil)
	logoutReq.Header.Set("Authorization", "Bearer "+token)
	logoutResp, err := app.Test(logoutReq)
	if err != nil {
		t.Fatalf("Logout request failed: %v", err)
	}
	defer logoutResp.Body.Close()
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 for logout, got %d", logoutResp.StatusCode)
	}

	// Token yang sama tidak boleh bisa dipakai lagi
	listReq := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listResp, err := app.Test(listReq)
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", listResp.StatusCode)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	app := CreateTestApp()
	_, _, email := CreateTestUser(app, t)

	// Minta token reset
	forgotBody := map[string]string{"email": email}
	forgotJSON, _ := json.Marshal(forgotBody)
	forgotReq := httptest.NewRequest("POST", "/api/v1/users/auth/forgot-password", bytes.NewReader(forgotJSON))
	forgotReq.Header.Set("Content-Type", "application/json")
	forgotResp, err := app.Test(forgotReq)
	if err != nil {
		t.Fatalf("Forgot password request failed: %v", err)
	}
	defer forgotResp.Body.Close()
	if forgotResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 for forgot password, got %d", forgotResp.StatusCode)
	}

	var forgotResult map[string]interface{}
	if err := json.NewDecoder(forgotResp.Body).Decode(&forgotResult); err != nil {
		t.Fatalf("Error decoding forgot password response: %v", err)
	}
	resetToken := forgotResult["data"].(map[string]interface{})["reset_token"].(string)
	if resetToken == "" {
		t.Fatalf("Expected reset token in response")
	}

	// Ganti password dengan token tersebut
	resetBody := map[string]string{"password": "NewPass123!"}
	resetJSON, _ := json.Marshal(resetBody)
	resetReq := httptest.NewRequest("POST", "/api/v1/users/auth/reset-password/"+resetToken, bytes.NewReader(resetJSON))
	resetReq.Header.Set("Content-Type", "application/json")
	resetResp, err := app.Test(resetReq)
	if err != nil {
		t.Fatalf("Reset password request failed: %v", err)
	}
	defer resetResp.Body.Close()
	if resetResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 for reset password, got %d", resetResp.StatusCode)
	}

	// Login dengan password baru harus berhasil
	loginBody := map[string]string{
		"email":    email,
		"password": "NewPass123!",
	}
	loginJSON, _ := json.Marshal(loginBody)
	loginReq := httptest.NewRequest("POST", "/api/v1/users/auth/login", bytes.NewReader(loginJSON))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 logging in with new password, got %d", loginResp.StatusCode)
	}

	// Token reset hanya bisa dipakai sekali
	resetAgainReq := httptest.NewRequest("POST", "/api/v1/users/auth/reset-password/"+resetToken, bytes.NewReader(resetJSON))
	resetAgainReq.Header.Set("Content-Type", "application/json")
	resetAgainResp, err := app.Test(resetAgainReq)
	if err != nil {
		t.Fatalf("Second reset request failed: %v", err)
	}
	defer resetAgainResp.Body.Close()
	if resetAgainResp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 reusing reset token, got %d", resetAgainResp.StatusCode)
	}
}
