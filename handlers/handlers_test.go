package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fixmate/models"
	"fixmate/services/dispatch"
	"fixmate/services/geo"
	"fixmate/services/ledger"
	"fixmate/services/matching"
	"fixmate/services/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServicesRouter() *gin.Engine {
	h := NewServicesHandler(pricing.NewCalculator(1.5, 25.0))
	r := gin.New()
	r.GET("/api/services", h.ListServices)
	r.GET("/api/services/:serviceID/quote", h.QuotePrice)
	return r
}

func TestListServices(t *testing.T) {
	r := newServicesRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Services []pricing.ServiceDetails `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Services, len(pricing.GetServicesMap()))
}

func TestQuotePrice(t *testing.T) {
	r := newServicesRouter()

	cases := []struct {
		url   string
		price float64
	}{
		{"/api/services/Cleaning/quote?premium=true", 70.0},
		{"/api/services/Cleaning/quote", 30.0},
		{"/api/services/Plumbing/quote?premium=true", 115.0},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, tc.url)
		var body struct {
			Price float64 `json:"price"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.price, body.Price, tc.url)
	}
}

func TestQuotePriceUnknownService(t *testing.T) {
	r := newServicesRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services/Astronautics/quote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// acceptAllSource confirms every offer immediately so handler tests finish fast.
type acceptAllSource struct{}

func (acceptAllSource) AwaitResponse(_ context.Context, offer models.Offer) <-chan dispatch.Response {
	ch := make(chan dispatch.Response, 1)
	ch <- dispatch.Response{ContractorID: offer.ContractorID, Accepted: true}
	return ch
}

func newDispatchRouter() (*gin.Engine, *dispatch.Engine) {
	led := ledger.NewAssignmentLedger(nil)
	ranker := matching.NewRanker(geo.NewScorer(0, 0), led, nil)
	engine := dispatch.NewEngine(
		dispatch.Config{OfferWindow: 50 * time.Millisecond, SettleDelay: time.Millisecond, MaxCandidates: 10},
		led, ranker, pricing.NewCalculator(1.5, 25.0),
		acceptAllSource{}, nil, nil, nil, nil,
	)
	h := NewDispatchHandler(engine, nil, zap.NewNop())

	r := gin.New()
	r.POST("/api/dispatch/session", h.StartDispatch)
	r.GET("/api/dispatch/session/:sessionID", h.GetStatus)
	r.DELETE("/api/dispatch/session/:sessionID", h.Cancel)
	return r, engine
}

func dispatchPayload(t *testing.T) []byte {
	t.Helper()
	requested := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(gin.H{
		"request": models.MatchRequest{
			ServiceID:        "Cleaning",
			UserID:           "u1",
			CustomerLocation: models.NewGeoPoint(-74.0, 40.7),
			RequestedTime:    requested,
			IsPremium:        true,
		},
		"candidatePool": []models.ContractorProfile{{
			ID:             "c1",
			LocationGeo:    models.NewGeoPoint(-74.0, 40.7),
			Rating:         4.5,
			CompletedJobs:  50,
			Certifications: []string{"Cleaning"},
			Availability: map[string][]models.TimeWindow{
				requested.Format("2006-01-02"): {{Start: 480, End: 1080}},
			},
			ResponseMinutes:   5,
			AcceptanceRate:    0.8,
			MaxConcurrentJobs: 1,
		}},
	})
	require.NoError(t, err)
	return payload
}

func TestStartDispatchEndpoint(t *testing.T) {
	r, engine := newDispatchRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/dispatch/session", bytes.NewReader(dispatchPayload(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var body struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.SessionID)

	done, err := engine.Done(body.SessionID)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish in time")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/dispatch/session/%s", body.SessionID), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var statusBody struct {
		Status models.DispatchStatus  `json:"status"`
		Result *models.DispatchResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statusBody))
	assert.Equal(t, models.StateConfirmed, statusBody.Status.State)
	require.NotNil(t, statusBody.Result)
	assert.Equal(t, "c1", statusBody.Result.ContractorID)
	assert.Equal(t, 70.0, statusBody.Result.Price)
}

func TestStartDispatchEndpointRejectsBadInput(t *testing.T) {
	r, _ := newDispatchRouter()

	// Malformed body.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/dispatch/session", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Well-formed body, unknown service.
	payload, err := json.Marshal(gin.H{
		"request": models.MatchRequest{
			ServiceID:        "Astronautics",
			CustomerLocation: models.NewGeoPoint(-74.0, 40.7),
			RequestedTime:    time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		},
		"candidatePool": []models.ContractorProfile{{ID: "c1"}},
	})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/dispatch/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchEndpointsUnknownSession(t *testing.T) {
	r, _ := newDispatchRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dispatch/session/nope", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/dispatch/session/nope", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterContractorRejectsZeroCapacity(t *testing.T) {
	h := NewContractorHandler(nil, zap.NewNop())
	r := gin.New()
	r.POST("/api/contractors", h.RegisterContractor)

	payload, err := json.Marshal(models.ContractorProfile{
		ID:                "c1",
		LocationGeo:       models.NewGeoPoint(-74.0, 40.7),
		MaxConcurrentJobs: 0,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contractors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelEndpoint(t *testing.T) {
	r, engine := newDispatchRouter()

	// A session over an empty pool still registers before failing; cancel it
	// through the API once it exists.
	payload, err := json.Marshal(gin.H{
		"request": models.MatchRequest{
			ServiceID:        "Cleaning",
			CustomerLocation: models.NewGeoPoint(-74.0, 40.7),
			RequestedTime:    time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		},
		"candidatePool": []models.ContractorProfile{{ID: "ghost"}},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/dispatch/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/dispatch/session/%s", body.SessionID), nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	done, err := engine.Done(body.SessionID)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish in time")
	}
}
