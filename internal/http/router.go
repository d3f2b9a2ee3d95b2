package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/adminsession"
	"vitruchem.com/app/internal/catalog"
	"vitruchem.com/app/internal/checkout"
	"vitruchem.com/app/internal/config"
	"vitruchem.com/app/internal/http/handlers"
	"vitruchem.com/app/internal/http/middleware"
	"vitruchem.com/app/internal/orders"
	"vitruchem.com/app/internal/storage"
)

// Deps carries everything the router wires together; tests swap in stubs.
type Deps struct {
	Cfg      config.Config
	Store    *catalog.Store
	Checkout *checkout.Service
	Orders   *orders.Service
	Sessions *adminsession.Codec
	Images   storage.Storage
}

func NewRouter(logger *slog.Logger, d Deps) *gin.Engine {
	r := gin.New()
	// ErrorHandler must sit above Recovery so it still gets to write the
	// response after a panic is recovered further down the chain.
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(logger),
		middleware.Recovery(logger),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	adminAuth := handlers.NewAdminAuthHandler(d.Sessions)
	r.GET("/admin", adminAuth.Get)
	r.POST("/admin", adminAuth.Post)
	r.GET("/admin/logout", adminAuth.Logout)

	requireAdmin := middleware.RequireAdmin(d.Sessions)

	catalogH := handlers.NewCatalogHandler(d.Store)
	r.POST("/api/products", requireAdmin, catalogH.Save)

	uploadH := handlers.NewUploadHandler(d.Images)
	r.POST("/admin/upload-image", requireAdmin, uploadH.Post)

	checkoutH := handlers.NewCheckoutHandler(d.Checkout)
	r.POST("/api/create-checkout-session", checkoutH.CreateSession)

	thankYouH := handlers.NewThankYouHandler(d.Orders, d.Cfg.Currency, logger)
	r.GET("/thank-you", thankYouH.Get)

	// The catalog document may live outside the site dir; serve it explicitly
	// so the storefront scripts always find it at the canonical path.
	r.StaticFile("/products.json", d.Cfg.CatalogPath)

	// Everything else is the static storefront.
	fs := nethttp.FileServer(nethttp.Dir(d.Cfg.SiteDir))
	r.NoRoute(gin.WrapH(fs))

	return r
}
