package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// RouterOptions controls optional GitHub login in front of the API.
type RouterOptions struct {
	AuthEnabled   bool
	SessionSecret string
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if opts.AuthEnabled {
		store := cookie.NewStore([]byte(opts.SessionSecret))
		r.Use(sessions.Sessions("site-content", store))

		r.GET("/login", GithubLogin)
		r.GET("/auth/callback", AuthCallback)
		r.GET("/logout", Logout)
	}

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	if opts.AuthEnabled {
		api.Use(AuthRequired)
	}

	api.GET("/collections", h.ListCollections)
	api.GET("/collections/:name", h.GetCollection)
	api.POST("/collections/:name/validate", h.ValidateRecord)
	api.GET("/entries", h.ListEntries)
	api.GET("/entry", h.GetEntry)
	api.POST("/create", h.CreateEntry)
	api.POST("/check", h.Check)

	return r
}
