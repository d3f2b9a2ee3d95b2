package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/adminsession"
	"vitruchem.com/app/internal/http/render"
	"vitruchem.com/app/internal/http/validation"
)

const editorPath = "/admin/products.html"

// AdminAuthHandler serves the token gate in front of the product editor.
type AdminAuthHandler struct {
	Sessions *adminsession.Codec
}

func NewAdminAuthHandler(s *adminsession.Codec) *AdminAuthHandler {
	return &AdminAuthHandler{Sessions: s}
}

type loginPage struct {
	Error string
}

// Get renders the login form. A valid session skips straight to the editor,
// and `?token=` is accepted for bookmarked links.
func (h *AdminAuthHandler) Get(c *gin.Context) {
	if h.Sessions.Valid(c) {
		c.Redirect(http.StatusFound, editorPath)
		return
	}

	if token := strings.TrimSpace(c.Query("token")); token != "" {
		h.attempt(c, token)
		return
	}

	render.Page(c, http.StatusOK, "login.html", loginPage{})
}

type tokenInput struct {
	Token string `form:"token" binding:"required,max=256"`
}

func (h *AdminAuthHandler) Post(c *gin.Context) {
	var in tokenInput
	if err := c.ShouldBind(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		msg := errs["token"]
		if msg == "" {
			msg = "Invalid token. Try again."
		}
		render.Page(c, http.StatusBadRequest, "login.html", loginPage{Error: msg})
		return
	}
	h.attempt(c, in.Token)
}

func (h *AdminAuthHandler) attempt(c *gin.Context, token string) {
	if !h.Sessions.MatchToken(token) {
		render.Page(c, http.StatusUnauthorized, "login.html", loginPage{Error: "Invalid token. Try again."})
		return
	}
	h.Sessions.Issue(c)
	c.Redirect(http.StatusFound, editorPath)
}

func (h *AdminAuthHandler) Logout(c *gin.Context) {
	h.Sessions.Clear(c)
	c.Redirect(http.StatusFound, "/admin")
}
