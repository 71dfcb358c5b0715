package handlers

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
)

// PageHandler serves published valentines: template asset + the stored
// configuration injected as page-scoped data. This path is hit by end
// recipients, so every failure degrades to a friendly page, never a raw
// error.
type PageHandler struct {
	Valentines   store.ValentineStore
	TemplatesDir string
}

func NewPageHandler(valentines store.ValentineStore, templatesDir string) *PageHandler {
	return &PageHandler{Valentines: valentines, TemplatesDir: templatesDir}
}

func (h *PageHandler) Serve(c *fiber.Ctx) error {
	id := c.Params("id")

	v, err := h.Valentines.FindByID(id)
	if err != nil {
		if err != store.ErrNotFound {
			log.Printf("[ERROR] valentine lookup %s: %v", id, err)
		}
		return h.notFoundPage(c)
	}
	if !v.IsActive {
		return h.notFoundPage(c)
	}

	// advisory analytics; a failed or raced increment never blocks the page
	if err := h.Valentines.IncrementViews(id); err != nil {
		log.Printf("[WARN] view count %s: %v", id, err)
	}

	tplPath := filepath.Join(h.TemplatesDir, v.Theme, "index.html")
	html, err := os.ReadFile(tplPath)
	if err != nil {
		// asset gone: fall back to the generic un-personalized copy
		log.Printf("[WARN] template missing for theme %s, redirecting", v.Theme)
		return c.Redirect("/templates/" + v.Theme + "/index.html")
	}

	c.Type("html", "utf-8")
	return c.SendString(injectConfig(string(html), v.Config, v.Features))
}

// injectConfig embeds the page data before </head> so it exists before any
// template script runs.
func injectConfig(html string, config, features []byte) string {
	if len(config) == 0 {
		config = []byte("{}")
	}
	if len(features) == 0 {
		features = []byte("[]")
	}
	script := "<script>\n" +
		"window.VALENTINE_CONFIG = " + string(config) + ";\n" +
		"window.VALENTINE_FEATURES = " + string(features) + ";\n" +
		"</script>"

	if strings.Contains(html, "</head>") {
		return strings.Replace(html, "</head>", script+"</head>", 1)
	}
	return script + html
}

func (h *PageHandler) notFoundPage(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Status(fiber.StatusNotFound).SendString(`<html>
<head><title>Valentine Not Found</title></head>
<body style="font-family: system-ui; text-align: center; padding: 100px; background: linear-gradient(135deg, #0f0c29, #302b63); color: white;">
    <h1>💔 Valentine Not Found</h1>
    <p>This link may have expired or is invalid.</p>
    <a href="/" style="color: #f43f5e;">Create Your Own →</a>
</body>
</html>`)
}
