package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/catalog"
	"vitruchem.com/app/internal/http/middleware"
	"vitruchem.com/app/internal/shared/apperr"
)

// CatalogHandler persists editor saves. The whole document is replaced on
// every save; the store handles backup and atomic publish.
type CatalogHandler struct {
	Store *catalog.Store
}

func NewCatalogHandler(s *catalog.Store) *CatalogHandler {
	return &CatalogHandler{Store: s}
}

// Save accepts the full product array. An If-Match header turns the save into
// a compare-and-swap on the document fingerprint; without it, last writer
// wins.
func (h *CatalogHandler) Save(c *gin.Context) {
	var cat catalog.Catalog
	if err := c.ShouldBindJSON(&cat); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Payload must be a JSON array of products.", nil))
		return
	}

	var res catalog.WriteResult
	var err error
	if expected := c.GetHeader("If-Match"); expected != "" {
		res, err = h.Store.WriteIf(cat, expected)
	} else {
		res, err = h.Store.Write(cat)
	}
	if err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			middleware.Fail(c, apperr.InvalidErr(verr.Error(), nil))
		case errors.Is(err, catalog.ErrETagMismatch):
			middleware.Fail(c, apperr.ConflictErr("Catalog changed since you loaded it. Reload and retry."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	var lastSlug any
	if res.LastSlug != "" {
		lastSlug = res.LastSlug
	}
	c.Header("ETag", res.ETag)
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"etag": res.ETag,
		"slug": lastSlug,
	})
}
