package ezoterika

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName       = "admin_session"
	sessionAuthKey    = "authenticated"
	sessionLifetime   = 12 * time.Hour
	csrfCookieName    = "_csrf"
	csrfTokenLookup   = "header:X-CSRF-Token,form:_csrf"
	gzipLevel         = 5
	assetCacheControl = "public, max-age=31536000, immutable"
)

// routeClass groups request paths that share caching and middleware rules.
type routeClass int

const (
	routePage    routeClass = iota // feed pages and search
	routeArticle                   // /posts/, counts a view per request
	routeAsset                     // /public, engine and site assets
	routeMedia                     // /media/, proxied from the media store
	routeFeed                      // sitemap, RSS and robots.txt
	routeAPI                       // /api/, read-only JSON
	routeAdmin                     // /admin
)

var feedPaths = map[string]bool{
	"/sitemap.xml": true,
	"/feed.xml":    true,
	"/robots.txt":  true,
}

func classifyPath(path string) routeClass {
	switch {
	case path == "/public" || strings.HasPrefix(path, "/public/"):
		return routeAsset
	case strings.HasPrefix(path, "/media/"):
		return routeMedia
	case feedPaths[path]:
		return routeFeed
	case strings.HasPrefix(path, "/api/"):
		return routeAPI
	case strings.HasPrefix(path, "/admin"):
		return routeAdmin
	case strings.HasPrefix(path, "/posts/"):
		return routeArticle
	}
	return routePage
}

var cacheControlByClass = map[routeClass]string{
	routePage:    "public, max-age=3600",
	routeArticle: "no-store",
	routeAsset:   assetCacheControl,
	routeMedia:   "public, max-age=86400",
	routeFeed:    "public, max-age=86400",
	routeAPI:     "no-store",
	routeAdmin:   "no-store",
}

// skipClasses returns a skipper matching requests in any of classes.
func skipClasses(classes ...routeClass) middleware.Skipper {
	return func(c echo.Context) bool {
		class := classifyPath(c.Request().URL.Path)
		for _, skip := range classes {
			if class == skip {
				return true
			}
		}
		return false
	}
}

var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' https: data:",
	"media-src 'self'",
	"font-src 'self'",
	"connect-src 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ")

func secureConfig(cfg SiteConfig) middleware.SecureConfig {
	sc := middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	}
	if cfg.CookieSecure {
		sc.HSTSMaxAge = 31536000
	}
	return sc
}

func csrfConfig(cfg SiteConfig) middleware.CSRFConfig {
	return middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    csrfTokenLookup,
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		Skipper:        skipClasses(routeAPI, routeAsset, routeMedia, routeFeed),
		ErrorHandler: func(err error, c echo.Context) error {
			c.Logger().Warnf("csrf: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %s -> %d (%s)", v.RemoteIP, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Audio and images are already compressed.
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   gzipLevel,
		Skipper: skipClasses(routeAsset, routeMedia),
	}))

	e.Use(middleware.SecureWithConfig(secureConfig(a.Config)))
	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(middleware.CSRFWithConfig(csrfConfig(a.Config)))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper:      skipClasses(routeAsset, routeMedia, routeFeed),
	}))

	e.Use(cacheControl)
}

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		class := classifyPath(c.Request().URL.Path)
		c.Response().Header().Set("Cache-Control", cacheControlByClass[class])
		return next(c)
	}
}

// bodyLimit caps editor submissions at the largest set of uploads a
// single save can carry.
func bodyLimit(cfg SiteConfig) echo.MiddlewareFunc {
	limit := cfg.MaxAudioUpload*4 + cfg.MaxImageUpload*4 + int64(cfg.MaxContentSize)*2
	return middleware.BodyLimit(strconv.FormatInt(limit, 10))
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(sessionLifetime / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin reports whether the request carries a signed-in admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[sessionAuthKey].(bool)
	return auth
}

func setAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(sess *sessions.Session) {
		sess.Values[sessionAuthKey] = true
	})
}

func clearAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(sess *sessions.Session) {
		delete(sess.Values, sessionAuthKey)
		sess.Options.MaxAge = -1
	})
}

func saveAdminSession(c echo.Context, update func(*sessions.Session)) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	update(sess)
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken returns the token the CSRF middleware stored for this request.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
