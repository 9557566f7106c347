// Package matproj is a thin client for the Materials Project v2 REST API,
// used to fetch reference structures and energies for comparison against
// generated inputs.
package matproj

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/mat"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

const (
	defaultBaseURL = "https://api.materialsproject.org"
	defaultTimeout = 20 * time.Second
	cacheTTL       = 15 * time.Minute
)

// summaryFields is the field set requested from /materials/summary. Keeping
// it fixed makes responses cacheable across callers.
const summaryFields = "material_id,formula_pretty,energy_per_atom,formation_energy_per_atom,energy_above_hull,band_gap,volume,density,symmetry,is_stable,is_magnetic,nsites"

// detailFields adds the crystal structure for single-material lookups.
const detailFields = summaryFields + ",structure"

// Entry is one material summary document.
type Entry struct {
	MaterialID             string   `json:"material_id"`
	FormulaPretty          string   `json:"formula_pretty"`
	EnergyPerAtom          float64  `json:"energy_per_atom"`
	FormationEnergyPerAtom float64  `json:"formation_energy_per_atom"`
	EnergyAboveHull        float64  `json:"energy_above_hull"`
	BandGap                float64  `json:"band_gap"`
	Volume                 float64  `json:"volume"`
	Density                float64  `json:"density"`
	NSites                 int      `json:"nsites"`
	IsStable               bool     `json:"is_stable"`
	IsMagnetic             bool     `json:"is_magnetic"`
	Symmetry               Symmetry `json:"symmetry"`
}

// Symmetry is the space-group block of a summary document.
type Symmetry struct {
	Symbol        string `json:"symbol"`
	Number        int    `json:"number"`
	CrystalSystem string `json:"crystal_system"`
}

// Material is a single material with its crystal structure resolved.
type Material struct {
	Entry
	Structure *structure.Structure `json:"-"`
}

// document is the raw API shape of one entry; the structure block uses the
// pymatgen dict layout and is converted on demand.
type document struct {
	Entry
	Structure *mpStructure `json:"structure,omitempty"`
}

type mpStructure struct {
	Lattice mpLattice `json:"lattice"`
	Sites   []mpSite  `json:"sites"`
}

type mpLattice struct {
	Matrix [3][3]float64 `json:"matrix"`
}

type mpSite struct {
	Species []mpSpecies `json:"species"`
	XYZ     [3]float64  `json:"xyz"`
}

type mpSpecies struct {
	Element string `json:"element"`
}

func (s *mpStructure) toStructure() (*structure.Structure, error) {
	cell := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell.Set(i, j, s.Lattice.Matrix[i][j])
		}
	}
	symbols := make([]string, len(s.Sites))
	positions := make([][3]float64, len(s.Sites))
	for i, site := range s.Sites {
		if len(site.Species) == 0 {
			return nil, fmt.Errorf("site %d has no species: %w", i, apperr.ErrUpstream)
		}
		symbols[i] = site.Species[0].Element
		positions[i] = site.XYZ
	}
	return structure.New(symbols, positions, cell)
}

type summaryResponse struct {
	Data []document `json:"data"`
}

// Config configures a Client. Cache and Limiter are optional.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *redis.Client
	Limiter    *rate.Limiter
}

// Client talks to the Materials Project API. Responses are cached in Redis
// when a cache is configured, and outbound calls go through the rate
// limiter so a burst of requests cannot exhaust the API key's quota.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *redis.Client
	limiter *rate.Limiter
}

// NewClient validates the config and returns a ready client. A missing API
// key is an invalid-parameter error so handlers can surface it as a 400
// instead of a confusing upstream 401 later.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("materials project API key is required: %w", apperr.ErrInvalidParameter)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Limiter == nil {
		// Stay well under the documented per-minute request cap.
		cfg.Limiter = rate.NewLimiter(rate.Every(time.Second), 5)
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
		cache:   cfg.Cache,
		limiter: cfg.Limiter,
	}, nil
}

// Search returns up to limit summary entries matching a chemical formula,
// e.g. "SrTiO3".
func (c *Client) Search(ctx context.Context, formula string, limit int) ([]Entry, error) {
	if formula == "" {
		return nil, fmt.Errorf("formula is required: %w", apperr.ErrInvalidParameter)
	}
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{}
	q.Set("formula", formula)
	q.Set("_fields", summaryFields)
	q.Set("_limit", strconv.Itoa(limit))

	docs, err := c.fetchSummary(ctx, q, "mp:formula:"+formula+":"+strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no materials found for formula %q: %w", formula, apperr.ErrNotFound)
	}
	entries := make([]Entry, len(docs))
	for i, d := range docs {
		entries[i] = d.Entry
	}
	return entries, nil
}

// GetByID fetches a single material by its mp-id, e.g. "mp-5229", including
// its crystal structure.
func (c *Client) GetByID(ctx context.Context, mpID string) (*Material, error) {
	if mpID == "" {
		return nil, fmt.Errorf("material id is required: %w", apperr.ErrInvalidParameter)
	}

	q := url.Values{}
	q.Set("material_ids", mpID)
	q.Set("_fields", detailFields)
	q.Set("_limit", "1")

	docs, err := c.fetchSummary(ctx, q, "mp:id:"+mpID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("material %q not found: %w", mpID, apperr.ErrNotFound)
	}

	m := &Material{Entry: docs[0].Entry}
	if docs[0].Structure != nil {
		st, err := docs[0].Structure.toStructure()
		if err != nil {
			return nil, fmt.Errorf("convert structure for %s: %w", mpID, err)
		}
		m.Structure = st
	}
	return m, nil
}

// ReferenceEnergies returns the most stable entry per element, used as the
// chemical potential mu(X) in defect formation energies.
func (c *Client) ReferenceEnergies(ctx context.Context, elements []string) (map[string]Entry, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("at least one element is required: %w", apperr.ErrInvalidParameter)
	}
	out := make(map[string]Entry, len(elements))
	for _, el := range elements {
		entries, err := c.Search(ctx, el, 10)
		if err != nil {
			return nil, fmt.Errorf("reference for %s: %w", el, err)
		}
		best := entries[0]
		for _, e := range entries[1:] {
			if e.EnergyPerAtom < best.EnergyPerAtom {
				best = e
			}
		}
		out[el] = best
	}
	return out, nil
}

func (c *Client) fetchSummary(ctx context.Context, q url.Values, cacheKey string) ([]document, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []document
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "/materials/summary/?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("materials project request failed: %v: %w", err, apperr.ErrUpstream)
	}
	defer resp.Body.Close()
	log.Printf("[matproj] GET /materials/summary status=%d latency=%s", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("materials project rejected the API key: %w", apperr.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("materials project endpoint not found: %w", apperr.ErrNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("materials project returned status %d: %w", resp.StatusCode, apperr.ErrUpstream)
	}

	var body summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode materials project response: %v: %w", err, apperr.ErrUpstream)
	}

	if c.cache != nil && len(body.Data) > 0 {
		if raw, err := json.Marshal(body.Data); err == nil {
			if err := c.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
				log.Printf("[matproj] cache set failed: %v", err)
			}
		}
	}
	return body.Data, nil
}
