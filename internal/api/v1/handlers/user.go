package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// User handlers

// GetUser is a function to get a single user by ID
// a user can only read their own profile
func GetUser(c *fiber.Ctx) error {
	// Ambil user ID dari locals
	userID := c.Locals("userID").(int)
	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	// User hanya boleh membaca profilnya sendiri
	if userID != targetID {
		logger.SecurityLogger.Warn("Forbidden", zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// Coba ambil data dari cache Redis
	cacheKey := fmt.Sprintf("user:%d", targetID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var user models.User
		if err = json.Unmarshal([]byte(cached), &user); err == nil {
			return c.JSON(fiber.Map{
				"message": "User found (from cache)",
				"success": true,
				"status":  200,
				"data":    user,
			})
		}
	}

	// Jika tidak ada di cache, ambil data dari database
	var user models.User
	err = config.DB.QueryRow(
		"SELECT id, first_name, last_name, email, age, created_at, updated_at FROM users WHERE id = $1",
		targetID).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Age, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.SecurityLogger.Warn("User not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	// Simpan data user ke cache Redis selama 1 jam
	userJSON, err := json.Marshal(user)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, userJSON, time.Hour)
	}

	// Kembalikan response
	logger.AuditLogger.Info("User found")
	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// UpdateUser memperbarui sebagian field profil user
func UpdateUser(c *fiber.Ctx) error {
	// Ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// Dapatkan target ID dari parameter URL
	targetID, err := c.ParamsInt("id")
	if err != nil {
		// Kembalikan error jika ID tidak valid
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	// Periksa apakah user memiliki izin untuk memperbarui user ini
	if userID != targetID {
		logger.SecurityLogger.Warn("You don't have permission to update this user",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to update this user",
			"success": false,
			"status":  403,
		})
	}

	// Definisikan struktur untuk request update user
	// pointer (*) untuk menandakan bahwa field bisa kosong
	type UpdateUserRequest struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Age       *int    `json:"age"`
		Password  *string `json:"password"`
	}

	// Parsing body request ke dalam struct
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Email != nil {
		if err := config.Validate.Var(*req.Email, "email"); err != nil {
			logger.AuditLogger.Warn("Invalid email in update user", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid email format",
				"success": false,
				"status":  400,
			})
		}
	}
	if req.Age != nil && *req.Age < 13 {
		return c.Status(400).JSON(fiber.Map{
			"message": "Age must be at least 13",
			"success": false,
			"status":  400,
		})
	}

	// Hash password baru hanya jika dikirim
	var hashedPassword *string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error hashing password",
				"success": false,
				"status":  500,
			})
		}
		s := string(hashed)
		hashedPassword = &s
	}

	// Update hanya field yang dikirim (gunakan COALESCE di SQL)
	_, err = config.DB.Exec(`
        UPDATE users
        SET first_name = COALESCE(NULLIF($1, ''), first_name),
			last_name = COALESCE($2, last_name),
			email = COALESCE(NULLIF($3, ''), email),
			age = COALESCE($4, age),
			password = COALESCE($5, password),
			updated_at = CURRENT_TIMESTAMP
        WHERE id = $6`,
		req.FirstName, req.LastName, req.Email, req.Age, hashedPassword, targetID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating user",
			"success": false,
			"status":  500,
		})
	}

	// Ambil data user terbaru dari database
	var updatedUser models.User
	err = config.DB.QueryRow(
		"SELECT id, first_name, last_name, email, age, created_at, updated_at FROM users WHERE id = $1",
		targetID,
	).Scan(&updatedUser.ID, &updatedUser.FirstName, &updatedUser.LastName, &updatedUser.Email, &updatedUser.Age, &updatedUser.CreatedAt, &updatedUser.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated user",
			"success": false,
			"status":  500,
		})
	}

	// Perbarui cache Redis
	cacheKey := fmt.Sprintf("user:%d", targetID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	userJSON, err := json.Marshal(updatedUser)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, userJSON, time.Hour)
	}

	// Kembalikan respons sukses jika user berhasil diperbarui
	logger.AuditLogger.Info("User updated successfully", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedUser,
	})
}

// DeleteUser menghapus akun user
// penghapusan dilindungi password: body harus menyertakan password yang benar
func DeleteUser(c *fiber.Ctx) error {
	// Ambil user ID dari locals
	userID := c.Locals("userID").(int)

	// Dapatkan target ID dari parameter URL
	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	// Periksa apakah user memiliki izin untuk menghapus user ini
	if userID != targetID {
		logger.SecurityLogger.Warn("You don't have permission to delete this user",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to delete this user",
			"success": false,
			"status":  403,
		})
	}

	type DeleteUserRequest struct {
		Password string `json:"password" validate:"required"`
	}

	var req DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in delete user", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Password is required",
			"success": false,
			"status":  400,
		})
	}

	// Cocokkan password sebelum menghapus akun
	var storedPassword string
	err = config.DB.QueryRow("SELECT password FROM users WHERE id = $1", targetID).Scan(&storedPassword)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password for account deletion", zap.Int("user_id", targetID))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid password",
			"success": false,
			"status":  401,
		})
	}

	// Hapus task milik user terlebih dahulu karena ada foreign key
	if _, err = config.DB.Exec("DELETE FROM tasks WHERE user_id = $1", targetID); err != nil {
		logger.ErrorLogger.Error("Error deleting user's tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting user",
			"success": false,
			"status":  500,
		})
	}
	if _, err = config.DB.Exec("DELETE FROM users WHERE id = $1", targetID); err != nil {
		logger.ErrorLogger.Error("Error deleting user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting user",
			"success": false,
			"status":  500,
		})
	}

	// Hapus cache Redis untuk user ini
	cacheKey := fmt.Sprintf("user:%d", targetID)
	config.RedisClient.Del(config.Ctx, cacheKey)

	// Kembalikan respons sukses jika user berhasil dihapus
	logger.AuditLogger.Info("User deleted successfully", zap.Int("user_id", targetID))
	return c.Status(200).JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  200,
	})
}
