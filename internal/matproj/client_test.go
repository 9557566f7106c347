package matproj

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

const summaryBody = `{"data":[
  {"material_id":"mp-5229","formula_pretty":"SrTiO3","energy_per_atom":-8.01,
   "formation_energy_per_atom":-3.55,"energy_above_hull":0.0,"band_gap":1.77,
   "volume":59.5,"density":5.12,"nsites":5,"is_stable":true,"is_magnetic":false,
   "symmetry":{"symbol":"Pm-3m","number":221,"crystal_system":"Cubic"}}
]}`

const detailBody = `{"data":[
  {"material_id":"mp-5229","formula_pretty":"SrTiO3","energy_per_atom":-8.01,
   "formation_energy_per_atom":-3.55,"energy_above_hull":0.0,"band_gap":1.77,
   "volume":59.5,"density":5.12,"nsites":5,"is_stable":true,"is_magnetic":false,
   "symmetry":{"symbol":"Pm-3m","number":221,"crystal_system":"Cubic"},
   "structure":{
     "lattice":{"matrix":[[3.905,0,0],[0,3.905,0],[0,0,3.905]]},
     "sites":[
       {"species":[{"element":"Sr","occu":1}],"xyz":[0,0,0],"label":"Sr"},
       {"species":[{"element":"Ti","occu":1}],"xyz":[1.9525,1.9525,1.9525],"label":"Ti"},
       {"species":[{"element":"O","occu":1}],"xyz":[1.9525,1.9525,0],"label":"O"},
       {"species":[{"element":"O","occu":1}],"xyz":[1.9525,0,1.9525],"label":"O"},
       {"species":[{"element":"O","occu":1}],"xyz":[0,1.9525,1.9525],"label":"O"}
     ]}}
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/materials/summary/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "SrTiO3", r.URL.Query().Get("formula"))
		assert.Equal(t, "3", r.URL.Query().Get("_limit"))
		w.Write([]byte(summaryBody))
	})

	entries, err := client.Search(context.Background(), "SrTiO3", 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mp-5229", entries[0].MaterialID)
	assert.InDelta(t, 1.77, entries[0].BandGap, 1e-9)
	assert.InDelta(t, 0.0, entries[0].EnergyAboveHull, 1e-9)
	assert.True(t, entries[0].IsStable)
	assert.False(t, entries[0].IsMagnetic)
	assert.Equal(t, 221, entries[0].Symmetry.Number)
}

func TestSearchRequestsHullAndMagnetismFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fields := r.URL.Query().Get("_fields")
		assert.Contains(t, fields, "energy_above_hull")
		assert.Contains(t, fields, "is_magnetic")
		assert.NotContains(t, fields, "structure")
		w.Write([]byte(summaryBody))
	})

	_, err := client.Search(context.Background(), "SrTiO3", 3)
	require.NoError(t, err)
}

func TestSearchEmptyFormula(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Search(context.Background(), "", 5)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
}

func TestSearchNoResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.Search(context.Background(), "Xx9Zz", 5)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSearchUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Search(context.Background(), "SrTiO3", 5)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestSearchUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Search(context.Background(), "SrTiO3", 5)
	assert.True(t, errors.Is(err, apperr.ErrUpstream))
}

func TestGetByID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mp-5229", r.URL.Query().Get("material_ids"))
		assert.Contains(t, r.URL.Query().Get("_fields"), "structure")
		w.Write([]byte(detailBody))
	})

	m, err := client.GetByID(context.Background(), "mp-5229")
	require.NoError(t, err)
	assert.Equal(t, "SrTiO3", m.FormulaPretty)

	require.NotNil(t, m.Structure)
	assert.Equal(t, 5, m.Structure.NAtoms())
	assert.Equal(t, "SrTiO3", m.Structure.Formula())
	assert.Equal(t, []string{"Sr", "Ti", "O", "O", "O"}, m.Structure.Symbols)
	assert.InDelta(t, 3.905, m.Structure.Cell.At(0, 0), 1e-12)
	assert.InDelta(t, 1.9525, m.Structure.Positions[1][2], 1e-12)
}

func TestGetByIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.GetByID(context.Background(), "mp-0")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReferenceEnergiesPicksLowest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"material_id":"mp-1","formula_pretty":"O2","energy_per_atom":-4.2},
			{"material_id":"mp-2","formula_pretty":"O2","energy_per_atom":-4.9}
		]}`))
	})

	refs, err := client.ReferenceEnergies(context.Background(), []string{"O"})
	require.NoError(t, err)
	assert.Equal(t, "mp-2", refs["O"].MaterialID)
}

func TestSearchUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(summaryBody))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Cache: cache})
	require.NoError(t, err)

	ctx := context.Background()
	first, err := client.Search(ctx, "SrTiO3", 5)
	require.NoError(t, err)
	second, err := client.Search(ctx, "SrTiO3", 5)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, first, second)
}
