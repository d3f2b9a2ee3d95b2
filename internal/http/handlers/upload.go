package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/http/middleware"
	"vitruchem.com/app/internal/http/validation"
	"vitruchem.com/app/internal/shared/apperr"
	"vitruchem.com/app/internal/shared/slug"
	"vitruchem.com/app/internal/storage"
)

const maxImageBytes = 8 << 20 // 8 MiB

// Sniffed MIME type -> stored extension. Anything else is rejected.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadHandler stores product images under a name derived from the product,
// so re-uploading for the same product replaces the old image.
type UploadHandler struct {
	Images storage.Storage
}

func NewUploadHandler(s storage.Storage) *UploadHandler {
	return &UploadHandler{Images: s}
}

type uploadInput struct {
	ProductName string `form:"productName" binding:"required,max=200"`
}

func (h *UploadHandler) Post(c *gin.Context) {
	var in uploadInput
	if err := c.ShouldBind(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Missing productName.", errs))
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("No file uploaded.", nil))
		return
	}
	if fh.Size > maxImageBytes {
		middleware.Fail(c, apperr.InvalidErr("File too large (max 8MB).", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	// Trust the bytes, not the client's Content-Type header. ReadFull keeps
	// going until the whole prefix is in; files shorter than the prefix are
	// fine, the sniffer works on what exists.
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	mime := http.DetectContentType(head[:n])
	ext, ok := allowedImageTypes[mime]
	if !ok {
		middleware.Fail(c, apperr.InvalidErr("Unsupported image type.", nil))
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	filename := slug.FromName(in.ProductName) + ext
	res, err := h.Images.Put(c.Request.Context(), f, storage.PutInput{
		Key:         filename,
		Filename:    fh.Filename,
		ContentType: mime,
		Size:        fh.Size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"filename": res.Key,
		"url":      res.URL,
	})
}
