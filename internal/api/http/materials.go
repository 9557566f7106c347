package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/matproj"
)

// MaterialsHandler proxies reference-data lookups to the Materials Project.
type MaterialsHandler struct {
	client *matproj.Client
}

func NewMaterialsHandler(client *matproj.Client) *MaterialsHandler {
	return &MaterialsHandler{client: client}
}

func (h *MaterialsHandler) Search(c *gin.Context) {
	if h.client == nil {
		respondError(c, fmt.Errorf("materials project client is not configured, set MP_API_KEY: %w", apperr.ErrInvalidParameter))
		return
	}

	formula := c.Param("formula")
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, fmt.Errorf("limit must be a positive integer, got %q: %w", raw, apperr.ErrInvalidParameter))
			return
		}
		limit = n
	}

	entries, err := h.client.Search(c.Request.Context(), formula, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entries)
}

// MaterialDetailResponse is the summary entry plus the JSON view of the
// resolved crystal structure.
type MaterialDetailResponse struct {
	matproj.Entry
	Structure *StructureResponse `json:"structure,omitempty"`
}

func (h *MaterialsHandler) GetByID(c *gin.Context) {
	if h.client == nil {
		respondError(c, fmt.Errorf("materials project client is not configured, set MP_API_KEY: %w", apperr.ErrInvalidParameter))
		return
	}

	m, err := h.client.GetByID(c.Request.Context(), c.Param("mpid"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := MaterialDetailResponse{Entry: m.Entry}
	if m.Structure != nil {
		view := structureView(m.Structure)
		resp.Structure = &view
	}
	respondOK(c, resp)
}

func (h *MaterialsHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/materials")
	g.GET("/id/:mpid", h.GetByID)
	g.GET("/:formula", h.Search)
}
