package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	synchub "telugudb/internal/sync"
	"telugudb/pkg/metrics"
	"telugudb/pkg/models"
	"telugudb/pkg/utils"
)

// Publisher receives an event after every committed write.
type Publisher interface {
	Publish(ev synchub.ContentEvent)
}

type Handler struct {
	Store Store
	Feed  Publisher // optional
	log   zerolog.Logger
}

func NewHandler(store Store, feed Publisher, log zerolog.Logger) *Handler {
	return &Handler{
		Store: store,
		Feed:  feed,
		log:   log.With().Str("component", "catalog").Logger(),
	}
}

// RegisterRoutes mounts the public reads on public and the writes and
// stats on admin, which must already carry the admin key middleware.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/content", h.list)        // GET /api/content
	public.GET("/content/:id", h.getByID) // GET /api/content/:id

	admin.POST("/content", h.create)       // POST /api/content
	admin.PUT("/content/:id", h.update)    // PUT /api/content/:id
	admin.DELETE("/content/:id", h.delete) // DELETE /api/content/:id
	admin.GET("/admin/stats", h.stats)     // GET /api/admin/stats
}

func (h *Handler) list(c *gin.Context) {
	f := Filter{
		Type:     models.ContentType(strings.TrimSpace(c.Query("type"))),
		Language: strings.TrimSpace(c.Query("language")),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if f.Search == "" {
		f.Search = strings.TrimSpace(c.Query("q"))
	}

	items, err := h.Store.List(c.Request.Context(), f)
	if err != nil {
		h.log.Error().Err(err).Msg("list content")
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	utils.OK(c, http.StatusOK, items, "")
}

func (h *Handler) getByID(c *gin.Context) {
	item, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Content not found")
			return
		}
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("get content")
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	utils.OK(c, http.StatusOK, item, "")
}

func (h *Handler) create(c *gin.Context) {
	var doc models.Content
	if err := c.ShouldBindJSON(&doc); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Server-assigned fields are never taken from the client.
	doc.ID = ""

	if err := Validate(&doc); err != nil {
		h.writeError(c, err, "create content", "Failed to create content")
		return
	}

	if err := h.Store.Create(c.Request.Context(), &doc); err != nil {
		h.writeError(c, err, "create content", "Failed to create content")
		return
	}

	metrics.ContentWrites.WithLabelValues("create").Inc()
	h.log.Info().Str("id", doc.ID).Str("type", string(doc.Type)).Str("title", doc.Title).Msg("content created")
	h.publish(synchub.EventContentCreated, doc.ID, &doc)

	utils.OK(c, http.StatusCreated, doc, "Content created successfully")
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	var patch models.ContentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Store.Update(c.Request.Context(), id, func(doc *models.Content) error {
		return ApplyPatch(doc, patch)
	})
	if err != nil {
		h.writeError(c, err, "update content", "Failed to update content")
		return
	}

	metrics.ContentWrites.WithLabelValues("update").Inc()
	h.log.Info().Str("id", updated.ID).Msg("content updated")
	h.publish(synchub.EventContentUpdated, updated.ID, updated)

	utils.OK(c, http.StatusOK, updated, "Content updated successfully")
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "delete content", "Failed to delete content")
		return
	}

	metrics.ContentWrites.WithLabelValues("delete").Inc()
	h.log.Info().Str("id", id).Msg("content deleted")
	h.publish(synchub.EventContentDeleted, id, nil)

	utils.OK(c, http.StatusOK, nil, "Content deleted successfully")
}

func (h *Handler) stats(c *gin.Context) {
	items, err := h.Store.List(c.Request.Context(), Filter{})
	if err != nil {
		h.log.Error().Err(err).Msg("fetch stats")
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   ComputeStats(items),
	})
}

// writeError maps store and validation errors onto the envelope. Store
// failures are logged and reported generically.
func (h *Handler) writeError(c *gin.Context, err error, op, generic string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		utils.Fail(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		utils.Fail(c, http.StatusNotFound, "Content not found")
	default:
		h.log.Error().Err(err).Str("op", op).Str("id", c.Param("id")).Msg("store failure")
		utils.Fail(c, http.StatusInternalServerError, generic)
	}
}

func (h *Handler) publish(kind, id string, doc *models.Content) {
	if h.Feed == nil {
		return
	}
	h.Feed.Publish(synchub.NewContentEvent(kind, id, doc))
}
