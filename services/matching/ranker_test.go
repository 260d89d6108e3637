package matching

import (
	"fmt"
	"testing"
	"time"

	"fixmate/models"
	"fixmate/services/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankTime = time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

func rankRequest() models.MatchRequest {
	return models.MatchRequest{
		ServiceID:        "Cleaning",
		CustomerLocation: models.NewGeoPoint(-74.0, 40.7),
		RequestedTime:    rankTime,
	}
}

func rankContractor(id string, lng, lat float64) models.ContractorProfile {
	return models.ContractorProfile{
		ID:             id,
		LocationGeo:    models.NewGeoPoint(lng, lat),
		Rating:         4.5,
		CompletedJobs:  50,
		Certifications: []string{"Cleaning"},
		Availability: map[string][]models.TimeWindow{
			rankTime.Format("2006-01-02"): {{Start: 480, End: 1080}},
		},
		ResponseMinutes:   5,
		AcceptanceRate:    0.8,
		MaxConcurrentJobs: 3,
	}
}

type staticGuard map[string]bool

func (g staticGuard) HasOpenOffer(contractorID string) bool { return g[contractorID] }

func TestRankEmptyPool(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)
	ranked := r.Rank(rankRequest(), nil, 10)
	assert.Empty(t, ranked)
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	near := rankContractor("near", -74.0, 40.7)
	mid := rankContractor("mid", -74.1, 40.7)
	far := rankContractor("far", -75.0, 40.7)

	ranked := r.Rank(rankRequest(), []models.ContractorProfile{far, near, mid}, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, "near", ranked[0].Contractor.ID)
	assert.Equal(t, "mid", ranked[1].Contractor.ID)
	assert.Equal(t, "far", ranked[2].Contractor.ID)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	assert.GreaterOrEqual(t, ranked[1].Score, ranked[2].Score)
}

func TestRankDeterministic(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	pool := make([]models.ContractorProfile, 0, 20)
	for i := 0; i < 20; i++ {
		c := rankContractor(fmt.Sprintf("c%02d", i), -74.0-float64(i)*0.01, 40.7)
		c.Rating = 3.0 + float64(i%5)*0.4
		c.ResponseMinutes = float64(i % 7)
		pool = append(pool, c)
	}

	first := r.Rank(rankRequest(), pool, 0)
	second := r.Rank(rankRequest(), pool, 0)
	assert.Equal(t, first, second)
}

func TestRankTieBreaks(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	// Identical profiles except response time, then except id.
	slow := rankContractor("aaa", -74.0, 40.7)
	slow.ResponseMinutes = 20
	fast := rankContractor("zzz", -74.0, 40.7)
	fast.ResponseMinutes = 2
	twinA := rankContractor("abc", -74.0, 40.7)
	twinB := rankContractor("abd", -74.0, 40.7)

	ranked := r.Rank(rankRequest(), []models.ContractorProfile{slow, fast}, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "zzz", ranked[0].Contractor.ID)

	ranked = r.Rank(rankRequest(), []models.ContractorProfile{twinB, twinA}, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "abc", ranked[0].Contractor.ID)
	assert.Equal(t, "abd", ranked[1].Contractor.ID)
}

func TestRankExcludesIneligible(t *testing.T) {
	guard := staticGuard{"busy-offer": true}
	r := NewRanker(geo.NewScorer(0, 0), guard, nil)

	atCapacity := rankContractor("at-capacity", -74.0, 40.7)
	atCapacity.CurrentJobs = 3

	// A zero-capacity profile is at full capacity by definition, even with
	// jobs already on the books.
	zeroCapacity := rankContractor("zero-capacity", -74.0, 40.7)
	zeroCapacity.MaxConcurrentJobs = 0
	zeroCapacity.CurrentJobs = 3

	unavailable := rankContractor("unavailable", -74.0, 40.7)
	unavailable.Availability = map[string][]models.TimeWindow{
		rankTime.Format("2006-01-02"): {{Start: 480, End: 1080, Booked: true}},
	}

	noWindows := rankContractor("no-windows", -74.0, 40.7)
	noWindows.Availability = nil

	withOffer := rankContractor("busy-offer", -74.0, 40.7)

	badCoords := rankContractor("bad-coords", -74.0, 40.7)
	badCoords.LocationGeo = models.GeoPoint{Type: "Point", Coordinates: []float64{-74.0}}

	eligible := rankContractor("eligible", -74.0, 40.7)

	ranked := r.Rank(rankRequest(), []models.ContractorProfile{
		atCapacity, zeroCapacity, unavailable, noWindows, withOffer, badCoords, eligible,
	}, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, "eligible", ranked[0].Contractor.ID)
}

func TestRankUrgentFavoursProximity(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	// Near but mediocre vs slightly farther but stellar. Distances are tuned
	// so the reputation edge wins at the standard proximity weight and loses
	// at the urgent one.
	near := rankContractor("near", -74.0013, 40.7)
	near.Rating = 3.0
	near.CompletedJobs = 10
	far := rankContractor("far", -74.0157, 40.7)
	far.Rating = 5.0
	far.CompletedJobs = 200

	req := rankRequest()
	baseline := r.Rank(req, []models.ContractorProfile{near, far}, 0)
	require.Len(t, baseline, 2)
	require.Equal(t, "far", baseline[0].Contractor.ID)

	req.IsUrgent = true
	urgent := r.Rank(req, []models.ContractorProfile{near, far}, 0)
	require.Len(t, urgent, 2)
	assert.Equal(t, "near", urgent[0].Contractor.ID)
}

func TestRankPremiumFavoursReputation(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	near := rankContractor("near", -74.0006, 40.7)
	near.Rating = 3.4
	near.CompletedJobs = 15
	veteran := rankContractor("veteran", -74.0264, 40.7)
	veteran.Rating = 5.0
	veteran.CompletedJobs = 300

	req := rankRequest()
	baseline := r.Rank(req, []models.ContractorProfile{near, veteran}, 0)
	require.Len(t, baseline, 2)
	require.Equal(t, "near", baseline[0].Contractor.ID)

	req.IsPremium = true
	premium := r.Rank(req, []models.ContractorProfile{near, veteran}, 0)
	require.Len(t, premium, 2)
	assert.Equal(t, "veteran", premium[0].Contractor.ID)
}

func TestRankCredentialBonus(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	plain := rankContractor("plain", -74.0, 40.7)
	plain.Certifications = nil
	certified := rankContractor("certified", -74.0, 40.7)
	specialist := rankContractor("specialist", -74.0, 40.7)
	specialist.Specialties = []string{"Cleaning"}

	ranked := r.Rank(rankRequest(), []models.ContractorProfile{plain, certified, specialist}, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "specialist", ranked[0].Contractor.ID)
	assert.Equal(t, "certified", ranked[1].Contractor.ID)
	assert.Equal(t, "plain", ranked[2].Contractor.ID)
}

func TestRankLimit(t *testing.T) {
	r := NewRanker(geo.NewScorer(0, 0), nil, nil)

	pool := make([]models.ContractorProfile, 0, 8)
	for i := 0; i < 8; i++ {
		pool = append(pool, rankContractor(fmt.Sprintf("c%d", i), -74.0-float64(i)*0.05, 40.7))
	}

	ranked := r.Rank(rankRequest(), pool, 3)
	require.Len(t, ranked, 3)
	// Truncation keeps the best-ranked prefix.
	assert.Equal(t, "c0", ranked[0].Contractor.ID)
	assert.Equal(t, "c1", ranked[1].Contractor.ID)
	assert.Equal(t, "c2", ranked[2].Contractor.ID)
}
