// Package render holds the few server-rendered pages (admin login, order
// confirmation, error). Templates are embedded so the binary stays
// self-contained.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

// Page renders an embedded template into the response. Rendering happens into
// a buffer first so a template failure never emits half a page.
func Page(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
