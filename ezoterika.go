// Package ezoterika is a publishing engine for block-structured articles
// built with Go, Echo, and templ. Articles are edited as an ordered list
// of typed blocks and stored as a Markdown dialect.
//
// Sites provide their own templ components via the ViewFuncs struct;
// ezoterika handles the handler logic, middleware, and database operations.
package ezoterika

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the engine calls when rendering
// pages.
type ViewFuncs struct {
	Home           func(feed Feed, siteURL string) templ.Component
	FeedPartial    func(feed Feed) templ.Component
	Post           func(article Article, siteURL string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []Post, message string, csrfToken string) templ.Component
	Editor         func(form EditorForm, csrfToken string) templ.Component
	AdminMedia     func(media []Media, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central ezoterika application. It wires together the store,
// cache, media storage, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	Media  MediaStore

	loginLimiter *LoginLimiter
	validate     *validator.Validate
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		validate:  validator.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the database and media storage and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("ezoterika: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("ezoterika: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("ezoterika: init store: %w", err)
	}
	a.Store = store

	if a.Media == nil {
		media, err := a.newMediaStore(context.Background())
		if err != nil {
			return fmt.Errorf("ezoterika: init media: %w", err)
		}
		a.Media = media
	}

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("ezoterika: serving %s on %s", a.Config.Name, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) newMediaStore(ctx context.Context) (MediaStore, error) {
	if a.Config.MinIO.Enabled() {
		return NewMinIOMediaStore(ctx, a.Config.MinIO)
	}
	return NewLocalMediaStore(a.Config.MediaDir)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Engine assets are served under /public/ ahead of the site's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/editor.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/content.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/media/*", a.handleMedia)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/posts/:id/", a.handlePost)
	e.GET("/api/posts/:id/blocks/", a.handlePostBlocks)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/new/", a.handleEditorNew)
	e.GET("/admin/post/:id/", a.handleEditorEdit)
	e.POST("/admin/save/", a.handleEditorSave, bodyLimit(a.Config))
	e.DELETE("/admin/post/:id/", a.handleAdminDelete)
	e.GET("/admin/media/", a.handleMediaList)
	e.DELETE("/admin/media/", a.handleMediaDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
