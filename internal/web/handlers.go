package web

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/client"
	"taskboard/internal/forms"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// Handlers adalah kumpulan view controller aplikasi web.
// Semua dependensi dibawa eksplisit, termasuk objek sesi.
type Handlers struct {
	Auth    *client.AuthService
	Tasks   *client.TaskService
	Render  *Renderer
	Cookies *CookieCodec
}

// Columns adalah tiga kolom kanban di dashboard.
type Columns struct {
	Pending   []client.Task
	Progress  []client.Task
	Completed []client.Task
}

// ViewData adalah data yang dikirim ke fragment saat render.
type ViewData struct {
	Session client.Session
	Flash   *Flash
	Errors  map[string]string
	Error   string
	Form    map[string]string
	Token   string
	Columns Columns
	Stats   client.Stats
	Profile client.Profile
}

// RegisterRoutes mendaftarkan semua route aplikasi web.
// Route POST didaftarkan lebih dulu, GET catch-all paling akhir.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	app.Post("/sign-up", h.SignUp)
	app.Post("/sign-in", h.SignIn)
	app.Post("/forgot-password", h.ForgotPassword)
	app.Post("/reset-password/:token", h.ResetPassword)
	app.Post("/recovery-password/:token", h.ResetPassword)
	app.Get("/logout", h.Logout)

	app.Post("/tasks", h.CreateTask)
	app.Post("/tasks/:id/update", h.UpdateTask)
	app.Post("/tasks/:id/status", h.MoveTask)
	app.Post("/tasks/:id/delete", h.DeleteTask)

	app.Post("/profile", h.UpdateProfile)
	app.Post("/profile/delete", h.DeleteAccount)

	// GET catch-all: semua navigasi view lewat sini
	app.Get("/*", h.ShowView)
}

// popFlash mengambil flash dari cookie lalu menulis ulang cookie
// tanpa flash supaya notifikasi hanya tampil sekali.
func (h *Handlers) popFlash(c *fiber.Ctx) (client.Session, *Flash) {
	sess, flash := h.Cookies.Read(c)
	if flash != nil {
		h.Cookies.Write(c, sess, nil)
	}
	return sess, flash
}

// redirectWithFlash menyimpan notifikasi sekali-tampil lalu redirect.
func (h *Handlers) redirectWithFlash(c *fiber.Ctx, sess client.Session, path, kind, msg string) error {
	h.Cookies.Write(c, sess, &Flash{Kind: kind, Message: msg})
	return c.Redirect(path, fiber.StatusSeeOther)
}

// requireAuth membaca sesi dan memastikan user masih login.
// Token hilang atau kadaluarsa: bersihkan cookie dan redirect ke sign-in.
func (h *Handlers) requireAuth(c *fiber.Ctx) (client.Session, bool) {
	sess, _ := h.Cookies.Read(c)
	if !sess.IsAuthenticated() {
		h.Cookies.Clear(c)
		_ = c.Redirect("/sign-in", fiber.StatusSeeOther)
		return client.Session{}, false
	}
	return sess, true
}

// ShowView adalah router view: path di-resolve ke nama view,
// path tak dikenal jatuh ke home
func (h *Handlers) ShowView(c *fiber.Ctx) error {
	name, token := Resolve(c.Path())

	switch name {
	case "dashboard":
		return h.Dashboard(c)
	case "profile":
		return h.ProfileView(c)
	case "reset-password":
		sess, flash := h.popFlash(c)
		return h.Render.Render(c, "reset-password", ViewData{Session: sess, Flash: flash, Token: token})
	default:
		sess, flash := h.popFlash(c)
		return h.Render.Render(c, name, ViewData{Session: sess, Flash: flash})
	}
}

// SignUp memproses form pendaftaran: validasi field dulu,
// baru panggil API. Gagal validasi dirender ulang dengan pesan per field.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	form := forms.SignUpForm{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Age:       c.FormValue("age"),
		Password:  c.FormValue("password"),
		Confirm:   c.FormValue("confirm"),
	}

	if errs := form.Validate(); len(errs) > 0 {
		return h.Render.Render(c, "sign-up", ViewData{
			Errors: errs,
			Form: map[string]string{
				"first_name": form.FirstName,
				"last_name":  form.LastName,
				"email":      form.Email,
				"age":        form.Age,
			},
		})
	}

	age, _ := strconv.Atoi(strings.TrimSpace(form.Age))
	err := h.Auth.Register(client.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Age:       age,
		Password:  form.Password,
	})
	if err != nil {
		logger.AuditLogger.Warn("Register failed", zap.Error(err))
		return h.Render.Render(c, "sign-up", ViewData{Error: err.Error()})
	}

	return h.redirectWithFlash(c, client.Session{}, "/sign-in", "success", "Account created, please sign in")
}

// SignIn memproses form login dan menyimpan sesi di cookie.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	form := forms.SignInForm{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if errs := form.Validate(); len(errs) > 0 {
		return h.Render.Render(c, "sign-in", ViewData{
			Errors: errs,
			Form:   map[string]string{"email": form.Email},
		})
	}

	sess, err := h.Auth.Login(form.Email, form.Password)
	if err != nil {
		logger.SecurityLogger.Warn("Login failed", zap.String("email", form.Email))
		return h.Render.Render(c, "sign-in", ViewData{Error: err.Error()})
	}

	h.Cookies.Write(c, sess, nil)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout: panggilan API best-effort, state lokal selalu dibersihkan.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sess, _ := h.Cookies.Read(c)
	h.Auth.Logout(sess)
	h.Cookies.Clear(c)
	return c.Redirect("/home", fiber.StatusSeeOther)
}

// Dashboard merender papan kanban tiga kolom.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}
	_, flash := h.popFlash(c)

	tasks, err := h.Tasks.List(sess)
	if err != nil {
		return h.Render.Render(c, "dashboard", ViewData{Session: sess, Flash: flash, Error: err.Error()})
	}

	var cols Columns
	for _, task := range tasks {
		switch task.Status {
		case models.BoardStatusProgress:
			cols.Progress = append(cols.Progress, task)
		case models.BoardStatusCompleted:
			cols.Completed = append(cols.Completed, task)
		default:
			cols.Pending = append(cols.Pending, task)
		}
	}

	return h.Render.Render(c, "dashboard", ViewData{
		Session: sess,
		Flash:   flash,
		Columns: cols,
		Stats:   client.Statistics(tasks),
	})
}

// parseDueDate menerima format datetime-local maupun RFC3339.
// Tanggal yang tidak bisa diparse dianggap tidak ada, bukan error.
func parseDueDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

// CreateTask memproses form create dari modal dashboard.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}

	form := forms.TaskForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		DueDate:     c.FormValue("due_date"),
		Status:      c.FormValue("status"),
	}
	if errs := form.Validate(); len(errs) > 0 {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", errs["title"])
	}

	status := form.Status
	if !models.ValidBoardStatus(status) {
		status = models.BoardStatusPending
	}

	err := h.Tasks.Create(sess, client.Task{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     parseDueDate(form.DueDate),
		Status:      status,
	})
	if err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", err.Error())
	}
	return h.redirectWithFlash(c, sess, "/dashboard", "success", "Task created")
}

// UpdateTask memproses form edit dari modal dashboard.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", "Invalid task ID")
	}

	form := forms.TaskForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		DueDate:     c.FormValue("due_date"),
		Status:      c.FormValue("status"),
	}
	if errs := form.Validate(); len(errs) > 0 {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", errs["title"])
	}

	update := client.TaskUpdate{
		Title:       &form.Title,
		Description: &form.Description,
		DueDate:     parseDueDate(form.DueDate),
	}
	if models.ValidBoardStatus(form.Status) {
		update.Status = &form.Status
	}

	if err := h.Tasks.Update(sess, id, update); err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", err.Error())
	}
	return h.redirectWithFlash(c, sess, "/dashboard", "success", "Task updated")
}

// MoveTask memindahkan task antar kolom kanban (update status saja).
func (h *Handlers) MoveTask(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", "Invalid task ID")
	}

	status := c.FormValue("status")
	if !models.ValidBoardStatus(status) {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", "Invalid status")
	}

	if err := h.Tasks.UpdateStatus(sess, id, status); err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", err.Error())
	}
	return h.redirectWithFlash(c, sess, "/dashboard", "success", "Task moved")
}

// DeleteTask memproses konfirmasi hapus dari modal dashboard.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", "Invalid task ID")
	}

	if err := h.Tasks.Delete(sess, id); err != nil {
		return h.redirectWithFlash(c, sess, "/dashboard", "error", err.Error())
	}
	return h.redirectWithFlash(c, sess, "/dashboard", "success", "Task deleted")
}

// ProfileView merender halaman profil dengan data dari API.
func (h *Handlers) ProfileView(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}
	_, flash := h.popFlash(c)

	profile, err := h.Auth.Profile(sess)
	if err != nil {
		return h.Render.Render(c, "profile", ViewData{Session: sess, Flash: flash, Error: err.Error()})
	}
	return h.Render.Render(c, "profile", ViewData{Session: sess, Flash: flash, Profile: profile})
}

// UpdateProfile memproses form edit profil.
// Field yang dikosongkan tidak dikirim ke API.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}

	var update client.ProfileUpdate
	if v := c.FormValue("first_name"); v != "" {
		update.FirstName = &v
	}
	if v := c.FormValue("last_name"); v != "" {
		update.LastName = &v
	}
	if v := c.FormValue("email"); v != "" {
		if !forms.ValidEmail(v) {
			return h.redirectWithFlash(c, sess, "/profile", "error", "Invalid email format")
		}
		update.Email = &v
	}
	if v := c.FormValue("age"); v != "" {
		if !forms.ValidAge(v) {
			return h.redirectWithFlash(c, sess, "/profile", "error", "You must be at least 13 years old")
		}
		age, _ := strconv.Atoi(strings.TrimSpace(v))
		update.Age = &age
	}
	if v := c.FormValue("password"); v != "" {
		if !forms.StrongPassword(v) {
			return h.redirectWithFlash(c, sess, "/profile", "error",
				"Password must be at least 8 characters with uppercase, lowercase, digit and special character")
		}
		update.Password = &v
	}

	if _, err := h.Auth.UpdateProfile(sess, update); err != nil {
		return h.redirectWithFlash(c, sess, "/profile", "error", err.Error())
	}
	return h.redirectWithFlash(c, sess, "/profile", "success", "Profile updated")
}

// DeleteAccount menghapus akun, dilindungi password.
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	sess, ok := h.requireAuth(c)
	if !ok {
		return nil
	}

	password := c.FormValue("password")
	if password == "" {
		return h.redirectWithFlash(c, sess, "/profile", "error", "Password is required")
	}

	if err := h.Auth.DeleteAccount(sess, password); err != nil {
		return h.redirectWithFlash(c, sess, "/profile", "error", err.Error())
	}

	h.Cookies.Clear(c)
	return h.redirectWithFlash(c, client.Session{}, "/home", "success", "Account deleted")
}

// ForgotPassword memproses permintaan reset password dari view sign-in.
func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if !forms.ValidEmail(email) {
		return h.Render.Render(c, "sign-in", ViewData{Error: "Invalid email format"})
	}

	if err := h.Auth.RequestReset(email); err != nil {
		return h.Render.Render(c, "sign-in", ViewData{Error: err.Error()})
	}
	return h.redirectWithFlash(c, client.Session{}, "/sign-in", "success", "Reset instructions sent")
}

// ResetPassword memproses form password baru dari link reset.
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")

	password := c.FormValue("password")
	confirm := c.FormValue("confirm")
	if !forms.StrongPassword(password) {
		return h.Render.Render(c, "reset-password", ViewData{
			Token: token,
			Error: "Password must be at least 8 characters with uppercase, lowercase, digit and special character",
		})
	}
	if password != confirm {
		return h.Render.Render(c, "reset-password", ViewData{Token: token, Error: "Passwords do not match"})
	}

	if err := h.Auth.ConfirmReset(token, password); err != nil {
		return h.Render.Render(c, "reset-password", ViewData{Token: token, Error: err.Error()})
	}
	return h.redirectWithFlash(c, client.Session{}, "/sign-in", "success", "Password reset, please sign in")
}
