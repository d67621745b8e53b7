package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/config"
	"taskboard/pkg/logger"
)

// Auth handlers
func Register(c *fiber.Ctx) error {
	// struct RegisterRequest menerima inputan dari user
	type RegisterRequest struct {
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" validate:"required,email"`
		Age       int    `json:"age" validate:"required,gte=13"`
		Password  string `json:"password" validate:"required,password"`
	}

	// variabel req digunakan untuk menerima inputan dari user
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// Validasi dengan validator
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Hash the password using bcrypt with default cost
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		// Return error response if password hashing fails
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	// Insert data user ke dalam database
	// Jika email sudah terdaftar, kembalikan response error 409
	var userID int
	err = config.DB.QueryRow(
		"INSERT INTO users (first_name, last_name, email, age, password) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		req.FirstName, req.LastName, req.Email, req.Age, string(hashedPassword)).Scan(&userID)
	if err != nil {
		// Jika error adalah unique violation error,
		// maka kembalikan status code 409 dengan message
		// yang mengindikasikan bahwa email sudah terdaftar
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				logger.SecurityLogger.Warn("Duplicate email", zap.String("email", req.Email))
				return c.Status(409).JSON(fiber.Map{
					"message": "Email already registered",
					"success": false,
					"status":  409,
				})
			}
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("userID", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": userID,
		},
	})
}

// fungsi login dengan menggunakan JSON Web Token (JWT)
func Login(c *fiber.Ctx) error {
	// struct LoginRequest menerima inputan dari user
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		// jika inputan tidak valid, maka kembalikan response error 400
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// variabel user digunakan untuk menerima data user dari database
	var user struct {
		ID        int
		FirstName string
		Email     string
		Password  string
	}

	// ambil data user dari database berdasarkan email yang dikirimkan
	err := config.DB.QueryRow(
		"SELECT id, first_name, email, password FROM users WHERE email = $1",
		req.Email).Scan(&user.ID, &user.FirstName, &user.Email, &user.Password)
	if err != nil {
		// error 401, jika data user tidak ditemukan
		logger.SecurityLogger.Warn("User not found", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	// invalid password
	// user.Password -> password yang ada di database
	// req.Password -> password yang dikirimkan oleh user
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	// membuat token JWT dengan menggunakan secret key
	// token JWT ini berisi user_id, email, first_name, dan exp (expired time)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"exp":        time.Now().Add(time.Hour * 1).Unix(),
	})

	// token JWT di encode menjadi string
	tokenString, err := token.SignedString(config.SecretKey)
	if err != nil {
		// error 500, jika terjadi error saat mengencode token
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
			"success": false,
			"status":  500,
		})
	}

	// kembalikan response success
	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"token":      tokenString,
		},
	})
}

// Logout memasukkan token ke blacklist Redis sampai waktu kadaluarsanya,
// sehingga token yang sama tidak bisa dipakai lagi
func Logout(c *fiber.Ctx) error {
	rawToken := c.Locals("rawToken").(string)

	// sisa umur token menentukan TTL blacklist
	ttl := time.Hour
	if token, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
					ttl = remaining
				}
			}
		}
	}

	if err := config.RedisClient.Set(config.Ctx, "blacklist:"+rawToken, "1", ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Error blacklisting token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error logging out",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Logout success", zap.Int("user_id", c.Locals("userID").(int)))
	return c.JSON(fiber.Map{
		"message": "Logout success",
		"success": true,
		"status":  200,
	})
}

// ForgotPassword membuat token reset sekali pakai dan menyimpannya
// di Redis selama 15 menit
func ForgotPassword(c *fiber.Ctx) error {
	type ForgotRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	var req ForgotRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in forgot password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during forgot password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var userID int
	err := config.DB.QueryRow("SELECT id FROM users WHERE email = $1", req.Email).Scan(&userID)
	if err != nil {
		logger.SecurityLogger.Warn("Forgot password for unknown email", zap.String("email", req.Email))
		return c.Status(404).JSON(fiber.Map{
			"message": "Email not found",
			"success": false,
			"status":  404,
		})
	}

	resetToken := uuid.NewString()
	if err := config.RedisClient.Set(config.Ctx, "reset:"+resetToken, userID, 15*time.Minute).Err(); err != nil {
		logger.ErrorLogger.Error("Error storing reset token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating reset token",
			"success": false,
			"status":  500,
		})
	}

	// Belum ada integrasi mailer, token dicatat di audit log
	// dan dikembalikan di response
	logger.AuditLogger.Info("Reset token created", zap.Int("user_id", userID), zap.String("token", resetToken))
	return c.JSON(fiber.Map{
		"message": "Reset token created",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"reset_token": resetToken,
		},
	})
}

// ResetPassword memvalidasi token reset dari URL lalu mengganti password user
func ResetPassword(c *fiber.Ctx) error {
	resetToken := c.Params("token")

	type ResetRequest struct {
		Password string `json:"password" validate:"required,password"`
	}

	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in reset password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during reset password", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	userID, err := config.RedisClient.Get(config.Ctx, "reset:"+resetToken).Int()
	if err != nil {
		logger.SecurityLogger.Warn("Invalid or expired reset token", zap.String("token", resetToken))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid or expired reset token",
			"success": false,
			"status":  400,
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	_, err = config.DB.Exec("UPDATE users SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		string(hashedPassword), userID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating password",
			"success": false,
			"status":  500,
		})
	}

	// token reset hanya boleh dipakai sekali
	config.RedisClient.Del(config.Ctx, "reset:"+resetToken)

	logger.AuditLogger.Info("Password reset", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
		"success": true,
		"status":  200,
	})
}
