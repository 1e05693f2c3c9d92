package http

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRouter creates the catalog UI router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.SessionLoadSave())

	router.SetHTMLTemplate(loadTemplates())

	health := NewHealthController(cfg.SessionDB, cfg.Version)
	ui := NewUIController(cfg.Store, cfg.Sessions, cfg.PageSize)

	router.GET("/health", health.Status)

	router.GET("/", ui.HomePage)
	router.POST("/page/back", ui.PreviousPage)
	router.POST("/page/next", ui.NextPage)

	router.GET("/add", ui.AddForm)
	router.POST("/add", ui.AddBook)
	router.GET("/edit/:id", ui.EditForm)
	router.POST("/edit/:id", ui.EditBook)
	router.GET("/delete/:id", ui.DeleteConfirm)
	router.POST("/delete/:id", ui.DeleteBook)

	router.POST("/error/dismiss", ui.DismissError)

	return router
}

// NewBackendRouter creates the REST book service router.
func NewBackendRouter(cfg BackendRouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Repository)

	router.GET("/health", health.Status)

	router.GET("/books", books.ListBooks)
	router.POST("/books", books.CreateBook)
	router.GET("/books/:id", books.GetBook)
	router.PUT("/books/:id", books.UpdateBook)
	router.DELETE("/books/:id", books.DeleteBook)

	return router
}

func loadTemplates() *template.Template {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
}
