package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telugudb/pkg/metrics"
	"telugudb/pkg/utils"
)

type Handler struct {
	Gate *Gate
	log  zerolog.Logger
}

func NewHandler(gate *Gate, log zerolog.Logger) *Handler {
	return &Handler{Gate: gate, log: log.With().Str("component", "auth").Logger()}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/verify", h.verify) // POST /api/admin/verify
}

type verifyReq struct {
	Key string `json:"key"`
}

// verify only answers whether the key is valid; clients use it to decide
// whether to keep the key for later admin calls.
func (h *Handler) verify(c *gin.Context) {
	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Admin key is required")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		utils.Fail(c, http.StatusBadRequest, "Admin key is required")
		return
	}

	if !h.Gate.Authorize(req.Key) {
		metrics.AdminAuthFailures.Inc()
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("admin key verification failed")
		utils.Fail(c, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	utils.OK(c, http.StatusOK, nil, "Admin key verified")
}
