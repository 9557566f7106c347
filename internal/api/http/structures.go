package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

// StructureResponse is the JSON view of a built crystal structure.
type StructureResponse struct {
	Formula   string        `json:"formula"`
	NAtoms    int           `json:"n_atoms"`
	Symbols   []string      `json:"symbols"`
	Cell      [3][3]float64 `json:"cell"`
	Positions [][3]float64  `json:"positions"`
}

func structureView(s *structure.Structure) StructureResponse {
	var cell [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell[i][j] = s.Cell.At(i, j)
		}
	}
	return StructureResponse{
		Formula:   s.Formula(),
		NAtoms:    s.NAtoms(),
		Symbols:   s.Symbols,
		Cell:      cell,
		Positions: s.Positions,
	}
}

// StructureHandler serves the bare crystal-builder endpoints.
type StructureHandler struct{}

func NewStructureHandler() *StructureHandler { return &StructureHandler{} }

type perovskiteRequest struct {
	A               string  `json:"A"`
	B               string  `json:"B"`
	LatticeConstant float64 `json:"a"`
	Supercell       *[3]int `json:"supercell,omitempty"`
}

func (h *StructureHandler) Perovskite(c *gin.Context) {
	req := perovskiteRequest{A: "Sr", B: "Ti", LatticeConstant: 3.905}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	s, err := structure.Perovskite(req.A, req.B, req.LatticeConstant)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Supercell != nil {
		if s, err = structure.Supercell(s, *req.Supercell); err != nil {
			respondError(c, err)
			return
		}
	}
	respondOK(c, structureView(s))
}

type rocksaltRequest struct {
	Cation          string  `json:"cation"`
	Anion           string  `json:"anion"`
	LatticeConstant float64 `json:"a"`
	Supercell       *[3]int `json:"supercell,omitempty"`
}

func (h *StructureHandler) Rocksalt(c *gin.Context) {
	req := rocksaltRequest{Cation: "Ni", Anion: "O", LatticeConstant: 4.17}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	s, err := structure.Rocksalt(req.Cation, req.Anion, req.LatticeConstant)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Supercell != nil {
		if s, err = structure.Supercell(s, *req.Supercell); err != nil {
			respondError(c, err)
			return
		}
	}
	respondOK(c, structureView(s))
}

type graphiteRequest struct {
	A         float64 `json:"a"`
	C         float64 `json:"c"`
	Supercell *[3]int `json:"supercell,omitempty"`
}

func (h *StructureHandler) Graphite(c *gin.Context) {
	req := graphiteRequest{A: 2.464, C: 6.711}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body"})
		return
	}
	s, err := structure.Graphite(req.A, req.C)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Supercell != nil {
		if s, err = structure.Supercell(s, *req.Supercell); err != nil {
			respondError(c, err)
			return
		}
	}
	respondOK(c, structureView(s))
}

func (h *StructureHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/structures")
	g.POST("/perovskite", h.Perovskite)
	g.POST("/rocksalt", h.Rocksalt)
	g.POST("/graphite", h.Graphite)
}
