package web

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/pkg/logger"
)

// Daftar view yang dikenal. Path di luar daftar ini jatuh ke home.
var knownViews = map[string]bool{
	"home":      true,
	"sign-in":   true,
	"sign-up":   true,
	"dashboard": true,
	"profile":   true,
}

// Resolve memetakan path (atau fragment hash lama seperti "#/dashboard")
// ke nama view plus token opsional untuk reset password.
// Path yang tidak dikenal jatuh ke "home".
func Resolve(path string) (name, token string) {
	p := strings.TrimPrefix(strings.TrimSpace(path), "#")
	p = strings.Trim(p, "/")
	if p == "" {
		return "home", ""
	}

	segs := strings.Split(p, "/")
	switch segs[0] {
	// recovery-password adalah alias lama untuk reset-password
	case "reset-password", "recovery-password":
		if len(segs) > 1 {
			token = segs[1]
		}
		return "reset-password", token
	}
	if knownViews[segs[0]] {
		return segs[0], ""
	}
	return "home", ""
}

// Renderer memuat fragment HTML dari direktori views dan membungkusnya
// dengan layout. Gagal memuat fragment dirender sebagai pesan error
// inline menggantikan konten, tanpa retry.
type Renderer struct {
	Dir string
}

func (r *Renderer) fragment(name string, data interface{}) (template.HTML, error) {
	raw, err := os.ReadFile(filepath.Join(r.Dir, name+".html"))
	if err != nil {
		return "", err
	}
	tpl, err := template.New(name).Parse(string(raw))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Render merender view bernama name dengan data-nya.
func (r *Renderer) Render(c *fiber.Ctx, name string, data interface{}) error {
	content, err := r.fragment(name, data)
	if err != nil {
		logger.ErrorLogger.Error("Error loading view fragment",
			zap.String("view", name), zap.Error(err))
		content = template.HTML(fmt.Sprintf(
			`<div class="view-error">Failed to load view %q</div>`,
			template.HTMLEscapeString(name)))
	}

	layoutRaw, err := os.ReadFile(filepath.Join(r.Dir, "layout.html"))
	if err != nil {
		// tanpa layout, kirim fragment apa adanya
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(string(content))
	}
	layout, err := template.New("layout").Parse(string(layoutRaw))
	if err != nil {
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(string(content))
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, fiber.Map{
		"View":    name,
		"Content": content,
	}); err != nil {
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(string(content))
	}
	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
