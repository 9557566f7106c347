package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsereda/SiliconToPhonopy/internal/workflows"
)

// WorkflowHandler serves the input-generation workflow endpoints. Each
// endpoint is stateless: the request fully determines the response.
type WorkflowHandler struct{}

func NewWorkflowHandler() *WorkflowHandler { return &WorkflowHandler{} }

// bindBody decodes an optional JSON body into req; an empty body keeps the
// zero value so workflow defaults apply.
func bindBody(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return false
	}
	return true
}

func (h *WorkflowHandler) Relax(c *gin.Context) {
	var req workflows.RelaxRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.Relax(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) Surface(c *gin.Context) {
	var req workflows.SurfaceRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.Surface(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) Vacancy(c *gin.Context) {
	var req workflows.VacancyRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.Vacancy(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) DftU(c *gin.Context) {
	var req workflows.DftURequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.DftU(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) Dispersion(c *gin.Context) {
	var req workflows.DispersionRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.Dispersion(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) Phonon(c *gin.Context) {
	var req workflows.PhononRequest
	if !bindBody(c, &req) {
		return
	}
	res, err := workflows.Phonon(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *WorkflowHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/workflows")
	g.POST("/relax", h.Relax)
	g.POST("/surface", h.Surface)
	g.POST("/vacancy", h.Vacancy)
	g.POST("/dftu", h.DftU)
	g.POST("/d3", h.Dispersion)
	g.POST("/phonon", h.Phonon)
}
