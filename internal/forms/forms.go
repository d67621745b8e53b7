package forms

import (
	"regexp"
	"strconv"
	"strings"
)

// Batas umur minimal untuk mendaftar.
const MinAge = 13

var (
	emailRe   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9\s]`)
)

// ValidEmail memeriksa format email: harus ada "@" dan segmen domain
// dengan titik setelahnya.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// StrongPassword memeriksa kompleksitas password: minimal 8 karakter,
// huruf besar, huruf kecil, angka, dan karakter spesial.
func StrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// ValidAge menerima umur dalam bentuk string dari form,
// valid jika angka dan minimal 13 tahun.
func ValidAge(age string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil {
		return false
	}
	return n >= MinAge
}

// SignUpForm adalah inputan form pendaftaran dari view sign-up.
type SignUpForm struct {
	FirstName string
	LastName  string
	Email     string
	Age       string
	Password  string
	Confirm   string
}

// Validate mengembalikan pesan error per field, map kosong artinya valid.
// Aturannya sama dengan validasi real-time di form: email, kompleksitas
// password, konfirmasi password, dan umur minimal.
func (f SignUpForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["first_name"] = "First name is required"
	}
	if !ValidEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if !StrongPassword(f.Password) {
		errs["password"] = "Password must be at least 8 characters with uppercase, lowercase, digit and special character"
	}
	if f.Password != f.Confirm {
		errs["confirm"] = "Passwords do not match"
	}
	if !ValidAge(f.Age) {
		errs["age"] = "You must be at least 13 years old"
	}
	return errs
}

// SignInForm adalah inputan form login dari view sign-in.
type SignInForm struct {
	Email    string
	Password string
}

func (f SignInForm) Validate() map[string]string {
	errs := map[string]string{}
	if !ValidEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if strings.TrimSpace(f.Password) == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// TaskForm adalah inputan form create/edit task di dashboard.
type TaskForm struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

func (f TaskForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	}
	return errs
}
