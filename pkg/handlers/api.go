package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"site-content/pkg/content"
	"site-content/pkg/logger"
	"site-content/pkg/models"
	"site-content/pkg/services"
)

// Handler serves the content admin API.
type Handler struct {
	cache *services.EntryCache
	log   logger.Logger
}

func NewHandler(cache *services.EntryCache, log logger.Logger) *Handler {
	return &Handler{cache: cache, log: log}
}

func (h *Handler) registry() *content.Registry {
	return h.cache.Registry()
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListCollections(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry().Schemas())
}

func (h *Handler) GetCollection(c *gin.Context) {
	name := c.Param("name")
	fields, err := h.registry().GetSchema(name)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CollectionSchema{Name: name, Fields: fields})
}

// ValidateRecord validates a JSON front-matter record against a collection.
func (h *Handler) ValidateRecord(c *gin.Context) {
	name := c.Param("name")
	if !h.registry().Has(name) {
		h.abortWithError(c, &content.UnknownCollectionError{Collection: name})
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	rec, err := h.registry().Validate(name, raw)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": name, "data": rec})
}

func (h *Handler) ListEntries(c *gin.Context) {
	filter := services.Filter{Collection: c.Query("collection")}
	if filter.Collection != "" && !h.registry().Has(filter.Collection) {
		h.abortWithError(c, &content.UnknownCollectionError{Collection: filter.Collection})
		return
	}
	if p := c.Query("published"); p != "" {
		published, err := strconv.ParseBool(p)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "published must be true or false"})
			return
		}
		filter.Published = &published
	}

	entries, err := h.cache.Entries(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load entries", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}
	c.JSON(http.StatusOK, services.FilterEntries(entries, filter))
}

// GetEntry re-reads a single entry from disk, bypassing the cache.
func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := services.ReadEntry(h.registry(), h.cache.Root(), c.Query("path"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req struct {
		Collection string                 `json:"collection" binding:"required"`
		Slug       string                 `json:"slug" binding:"required"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	rel, err := services.CreateEntry(h.registry(), h.cache.Root(), req.Collection, req.Slug, req.Data)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.cache.Invalidate()
	h.log.Info("Created entry", logger.String("path", rel))
	c.JSON(http.StatusCreated, gin.H{"status": "created", "path": rel})
}

// Check reloads the whole content tree and reports the invalid entries.
func (h *Handler) Check(c *gin.Context) {
	h.cache.Invalidate()
	entries, err := h.cache.Entries(c.Request.Context())
	if err != nil {
		h.log.Error("Content check failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	invalid := make([]models.Entry, 0)
	for _, e := range entries {
		if !e.Valid() {
			invalid = append(invalid, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"summary": services.Summarize(entries), "invalid": invalid})
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	var verr *content.ValidationError
	switch {
	case errors.Is(err, content.ErrUnknownCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": content.Issues(err)})
	case errors.Is(err, services.ErrInvalidPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, os.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	case errors.Is(err, os.ErrExist):
		c.JSON(http.StatusConflict, gin.H{"error": "File already exists"})
	default:
		h.log.Error("Request failed", logger.String("path", c.Request.URL.Path), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
