package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/models"
	ws "taskboard/internal/websocket"
	"taskboard/pkg/logger"
)

// Task handlers

// publishTaskEvent mengirim event perubahan task ke hub websocket
// jika hub sudah diinisialisasi
func publishTaskEvent(evtType string, task models.Task) {
	if config.Events == nil {
		return
	}
	config.Events.Publish(ws.Event{
		Type:   evtType,
		TaskID: task.ID,
		UserID: task.UserID,
		Name:   task.Name,
		Date:   task.Date,
	})
}

// CreateTask adalah fungsi untuk membuat task baru
func CreateTask(c *fiber.Ctx) error {
	// ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// struct TaskRequest menerima inputan dari user
	type TaskRequest struct {
		Name   string     `json:"name" validate:"required"`
		Detail string     `json:"detail"`
		Date   *time.Time `json:"date"`
		Status string     `json:"status" validate:"required"`
	}

	// variabel req digunakan untuk menerima inputan dari user
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		// kembalikan error 400 jika inputan tidak valid
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// validasi status, hanya kosakata wire yang diterima
	if !models.ValidWireStatus(req.Status) {
		logger.ErrorLogger.Error("Invalid status in create task")
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid status",
			"success": false,
			"status":  400,
		})
	}

	// lakukan eksekusi query untuk membuat task baru di database
	// jika gagal, maka kembalikan error 500
	var taskID int
	err := config.DB.QueryRow(
		"INSERT INTO tasks (user_id, name, detail, date, status) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		userID, req.Name, req.Detail, req.Date, req.Status,
	).Scan(&taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	publishTaskEvent(ws.EventTaskCreated, models.Task{
		ID: taskID, UserID: userID, Name: req.Name, Date: req.Date,
	})

	// kembalikan respons sukses jika task berhasil dibuat
	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", taskID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": taskID,
		},
	})
}

// ListTasks adalah fungsi untuk mengambil semua task milik user
func ListTasks(c *fiber.Ctx) error {
	// ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// tasks tanpa due date ditaruh paling belakang
	rows, err := config.DB.Query(
		"SELECT id, user_id, name, detail, date, status, created_at, updated_at FROM tasks WHERE user_id = $1 ORDER BY date NULLS LAST, id",
		userID)
	if err != nil {
		// kembalikan error 500 jika terjadi kesalahan saat mengambil data dari database
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}
	// .Close() digunakan untuk menutup koneksi setelah selesai digunakan
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.UserID, &task.Name, &task.Detail, &task.Date, &task.Status, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning tasks",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over tasks",
			"success": false,
			"status":  500,
		})
	}

	// Simpan per task ke Redis dengan waktu kadaluarsa 1 jam
	for _, task := range tasks {
		cacheKey := fmt.Sprintf("task:%d", task.ID)
		jsonData, err := json.Marshal(task)
		if err == nil {
			config.RedisClient.Set(config.Ctx, cacheKey, jsonData, time.Hour)
		}
	}

	// kembalikan respons sukses jika task berhasil diambil
	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// GetTask mengambil satu task berdasarkan ID
func GetTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// Dapatkan task ID dari parameter URL
	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Coba ambil data task dari cache Redis
	cacheKey := fmt.Sprintf("task:%d", taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			// user hanya boleh mengakses task miliknya
			if task.UserID != userID {
				logger.SecurityLogger.Warn("Forbidden", zap.Int("user_id", userID), zap.Int("task_id", taskID))
				return c.Status(403).JSON(fiber.Map{
					"message": "Forbidden",
					"success": false,
					"status":  403,
				})
			}

			logger.AuditLogger.Info("Task found (from cache)")
			return c.JSON(fiber.Map{
				"message": "Task found (from cache)",
				"success": true,
				"status":  200,
				"data":    task,
			})
		}
	}

	// Ambil data task dari database
	var task models.Task
	err = config.DB.QueryRow(
		"SELECT id, user_id, name, detail, date, status, created_at, updated_at FROM tasks WHERE id = $1",
		taskID).Scan(&task.ID, &task.UserID, &task.Name, &task.Detail, &task.Date, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		// Kembalikan error jika task tidak ditemukan
		logger.ErrorLogger.Error("Task not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	// Periksa apakah user memiliki izin untuk melihat task ini
	if task.UserID != userID {
		logger.SecurityLogger.Warn("Forbidden", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// Simpan data task ke cache selama 1 jam
	taskJSON, err := json.Marshal(task)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	// Kembalikan respons sukses jika task ditemukan
	logger.AuditLogger.Info("Task found")
	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// UpdateTask memperbarui sebagian field task
func UpdateTask(c *fiber.Ctx) error {
	// ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// dapatkan target ID dari parameter URL
	taskID, err := c.ParamsInt("id")
	if err != nil {
		// kembalikan error 400 jika ID tidak valid
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID int
	err = config.DB.QueryRow("SELECT user_id FROM tasks WHERE id = $1", taskID).Scan(&ownerID)
	if err != nil {
		// kembalikan error 404 jika task tidak ditemukan
		logger.ErrorLogger.Error("Task not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	// periksa apakah user memiliki izin untuk mengupdate task ini
	if ownerID != userID {
		logger.SecurityLogger.Warn("You don't have permission to update this task",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to update this task",
			"success": false,
			"status":  403,
		})
	}

	// struktur request untuk mengupdate task
	// pointer (*) untuk menandakan bahwa field bisa kosong
	type UpdateTaskRequest struct {
		Name   *string    `json:"name"`
		Detail *string    `json:"detail"`
		Date   *time.Time `json:"date"`
		Status *string    `json:"status"`
	}

	// parsing body request ke dalam struct
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// periksa apakah status yang diinputkan valid
	if req.Status != nil {
		if !models.ValidWireStatus(*req.Status) {
			logger.ErrorLogger.Error("Invalid status in update task")
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid status",
				"success": false,
				"status":  400,
			})
		}
	}

	// Update hanya field yang dikirim (gunakan COALESCE di SQL)
	_, err = config.DB.Exec(`
		UPDATE tasks
		SET name = COALESCE(NULLIF($1, ''), name),
			detail = COALESCE($2, detail),
			date = COALESCE($3, date),
			status = COALESCE(NULLIF($4, ''), status),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5`,
		req.Name, req.Detail, req.Date, req.Status, taskID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	// Ambil data task terbaru dari database
	var updatedTask models.Task
	err = config.DB.QueryRow(
		"SELECT id, user_id, name, detail, date, status, created_at, updated_at FROM tasks WHERE id = $1",
		taskID,
	).Scan(&updatedTask.ID, &updatedTask.UserID, &updatedTask.Name, &updatedTask.Detail, &updatedTask.Date, &updatedTask.Status, &updatedTask.CreatedAt, &updatedTask.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated task",
			"success": false,
			"status":  500,
		})
	}

	// Perbarui cache Redis untuk task ini
	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	taskJSON, err := json.Marshal(updatedTask)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	publishTaskEvent(ws.EventTaskUpdated, updatedTask)

	// kembalikan respons sukses jika task berhasil diupdate
	logger.AuditLogger.Info("Task updated", zap.Int("taskID", taskID))
	return c.Status(200).JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedTask,
	})
}

// DeleteTask menghapus task milik user
func DeleteTask(c *fiber.Ctx) error {
	// ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// dapatkan task ID dari parameter URL
	taskID, err := c.ParamsInt("id")
	if err != nil {
		// kembalikan error 400 jika ID tidak valid
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var ownerID int
	err = config.DB.QueryRow("SELECT user_id FROM tasks WHERE id = $1", taskID).Scan(&ownerID)
	if err != nil {
		logger.ErrorLogger.Error("Task not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	// periksa apakah user memiliki izin untuk menghapus task ini
	if ownerID != userID {
		logger.SecurityLogger.Warn("You don't have permission to delete this task",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// lakukan eksekusi query untuk menghapus task di database
	_, err = config.DB.Exec("DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	// Hapus cache Redis untuk task ini
	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)

	publishTaskEvent(ws.EventTaskDeleted, models.Task{ID: taskID, UserID: userID})

	// kembalikan respons sukses jika task berhasil dihapus
	logger.AuditLogger.Info("Task deleted", zap.Int("taskID", taskID))
	return c.Status(200).JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}
