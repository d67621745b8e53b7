package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// createTestTask membuat task lewat API dan mengembalikan ID-nya
func createTestTask(app *fiber.App, t *testing.T, token, name, status string) int {
	taskBody := map[string]string{
		"name":   name,
		"detail": "Task description",
		"status": status,
	}
	taskJSON, _ := json.Marshal(taskBody)
	taskReq := httptest.NewRequest("POST", "/api/v1/tasks", bytes.NewReader(taskJSON))
	taskReq.Header.Set("Content-Type", "application/json")
	taskReq.Header.Set("Authorization", "Bearer "+token)
	taskResp, err := app.Test(taskReq)
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	defer taskResp.Body.Close()

	if taskResp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", taskResp.StatusCode)
	}
	var taskResult map[string]interface{}
	if err := json.NewDecoder(taskResp.Body).Decode(&taskResult); err != nil {
		t.Fatalf("Error decoding createTask response: %v", err)
	}
	data, ok := taskResult["data"].(map[string]interface{})
	if !ok || data["id"] == nil {
		t.Fatalf("Expected task id in response")
	}
	return int(data["id"].(float64))
}

// TestCreateTask: Uji pembuatan task baru
func TestCreateTask(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	taskID := createTestTask(app, t, token, "Test Task", "Por Hacer")
	if taskID == 0 {
		t.Errorf("Expected non-zero task id")
	}
}

// TestCreateTaskInvalidStatus: status di luar kosakata wire ditolak
func TestCreateTaskInvalidStatus(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	taskBody := map[string]string{
		"name":   "Bad Status",
		"status": "pending", // kosakata board, bukan wire
	}
	taskJSON, _ := json.Marshal(taskBody)
	taskReq := httptest.NewRequest("POST", "/api/v1/tasks", bytes.NewReader(taskJSON))
	taskReq.Header.Set("Content-Type", "application/json")
	taskReq.Header.Set("Authorization", "Bearer "+token)
	taskResp, err := app.Test(taskReq)
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	defer taskResp.Body.Close()

	if taskResp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid status, got %d", taskResp.StatusCode)
	}
}

// TestListTasks: Uji endpoint list tasks
func TestListTasks(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	createTestTask(app, t, token, "List Task", "Por Hacer")

	listReq := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listResp, err := app.Test(listReq)
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for list tasks, got %d", listResp.StatusCode)
	}

	var listResult map[string]interface{}
	if err := json.NewDecoder(listResp.Body).Decode(&listResult); err != nil {
		t.Fatalf("Error decoding list response: %v", err)
	}
	data, ok := listResult["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data array in list response")
	}
	if len(data) != 1 {
		t.Errorf("Expected 1 task, got %d", len(data))
	}
}

// TestListTasksOnlyOwn: user tidak melihat task milik user lain
func TestListTasksOnlyOwn(t *testing.T) {
	app := CreateTestApp()
	tokenA, _, _ := CreateTestUser(app, t)
	tokenB, _, _ := CreateTestUser(app, t)

	createTestTask(app, t, tokenA, "Task milik A", "Por Hacer")

	listReq := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	listReq.Header.Set("Authorization", "Bearer "+tokenB)
	listResp, err := app.Test(listReq)
	if err != nil {
		t.Fatalf("ListTasks error: %v", err)
	}
	defer listResp.Body.Close()

	var listResult map[string]interface{}
	if err := json.NewDecoder(listResp.Body).Decode(&listResult); err != nil {
		t.Fatalf("Error decoding list response: %v", err)
	}
	data, ok := listResult["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data array in list response")
	}
	if len(data) != 0 {
		t.Errorf("Expected 0 tasks for other user, got %d", len(data))
	}
}

// TestGetTask: Uji pengambilan satu task
func TestGetTask(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	taskID := createTestTask(app, t, token, "Get Task", "Haciendo")

	getReq := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/tasks/%d", taskID), nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getResp, err := app.Test(getReq)
	if err != nil {
		t.Fatalf("GetTask error: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for get task, got %d", getResp.StatusCode)
	}

	var getResult map[string]interface{}
	if err := json.NewDecoder(getResp.Body).Decode(&getResult); err != nil {
		t.Fatalf("Error decoding get response: %v", err)
	}
	data := getResult["data"].(map[string]interface{})
	if data["name"] != "Get Task" {
		t.Errorf("Expected task name 'Get Task', got %v", data["name"])
	}
	if data["status"] != "Haciendo" {
		t.Errorf("Expected status 'Haciendo', got %v", data["status"])
	}
}

// TestUpdateTask: Uji update sebagian field task
func TestUpdateTask(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	taskID := createTestTask(app, t, token, "Update Task", "Por Hacer")

	// Update hanya status
	updateBody := map[string]string{"status": "Hecho"}
	updateJSON, _ := json.Marshal(updateBody)
	updateReq := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/tasks/%d", taskID), bytes.NewReader(updateJSON))
	updateReq.Header.Set("Content-Type", "application/json")
	updateReq.Header.Set("Authorization", "Bearer "+token)
	updateResp, err := app.Test(updateReq)
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	defer updateResp.Body.Close()
	if updateResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 for update task, got %d", updateResp.StatusCode)
	}

	var updateResult map[string]interface{}
	if err := json.NewDecoder(updateResp.Body).Decode(&updateResult); err != nil {
		t.Fatalf("Error decoding update response: %v", err)
	}
	data := updateResult["data"].(map[string]interface{})
	if data["status"] != "Hecho" {
		t.Errorf("Expected status 'Hecho', got %v", data["status"])
	}
	// field lain tidak berubah
	if data["name"] != "Update Task" {
		t.Errorf("Expected name unchanged, got %v", data["name"])
	}
}

// TestDeleteTask: Uji penghapusan task
func TestDeleteTask(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	taskID := createTestTask(app, t, token, "Delete Task", "Por Hacer")

	delReq := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/tasks/%d", taskID), nil)
	delReq.Header.Set("Authorization", "Bearer "+token)
	delResp, err := app.Test(delReq)
	if err != nil {
		t.Fatalf("DeleteTask error: %v", err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 for delete task, got %d", delResp.StatusCode)
	}

	// Task yang sudah dihapus tidak bisa diambil lagi
	getReq := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/tasks/%d", taskID), nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getResp, err := app.Test(getReq)
	if err != nil {
		t.Fatalf("GetTask error: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for deleted task, got %d", getResp.StatusCode)
	}
}

// TestTaskForbiddenForOtherUser: task orang lain tidak bisa diubah
func TestTaskForbiddenForOtherUser(t *testing.T) {
	app := CreateTestApp()
	tokenA, _, _ := CreateTestUser(app, t)
	tokenB, _, _ := CreateTestUser(app, t)

	taskID := createTestTask(app, t, tokenA, "Task milik A", "Por Hacer")

	updateBody := map[string]string{"status": "Hecho"}
	updateJSON, _ := json.Marshal(updateBody)
	updateReq := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/tasks/%d", taskID), bytes.NewReader(updateJSON))
	updateReq.Header.Set("Content-Type", "application/json")
	updateReq.Header.Set("Authorization", "Bearer "+tokenB)
	updateResp, err := app.Test(updateReq)
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	defer updateResp.Body.Close()
	if updateResp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403 updating another user's task, got %d", updateResp.StatusCode)
	}
}
