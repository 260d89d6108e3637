package matching

import (
	"math"
	"sort"

	"fixmate/models"
	"fixmate/services/geo"

	"go.uber.org/zap"
)

// OfferGuard is the slice of the assignment ledger the ranker consults at
// call time: contractors with an outstanding offer are excluded, not scored low.
type OfferGuard interface {
	HasOpenOffer(contractorID string) bool
}

// Scoring constants. Weights are re-balanced per request: urgent requests
// weigh proximity heavier, premium requests weigh reputation heavier.
const (
	ProximityWeight      = 0.30
	ReputationWeight     = 0.25
	ReliabilityWeight    = 0.15
	ResponsivenessWeight = 0.15
	CertificationBonus   = 0.10
	SpecialtyBonus       = 0.05

	UrgentProximityWeight   = 0.45
	PremiumReputationWeight = 0.40

	// Saturation points for normalisation: a 100-job history earns the full
	// reputation discount factor, response scores halve every 10 minutes.
	CompletedJobsSaturation = 100
	ResponseHalfLifeMinutes = 10.0
)

// Ranker produces the ordered candidate list a dispatch session consumes.
type Ranker struct {
	Geo    *geo.Scorer
	Guard  OfferGuard
	Logger *zap.Logger
}

// NewRanker wires a ranker over the given geo scorer and ledger guard.
func NewRanker(geoScorer *geo.Scorer, guard OfferGuard, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{Geo: geoScorer, Guard: guard, Logger: logger}
}

// Rank filters, scores and orders the candidate pool for a request, truncated
// to limit. An empty pool or an empty post-filter set yields an empty ranking,
// not an error; callers decide what "no matches" means.
//
// Ordering is fully deterministic: descending score, ties broken by lower
// response time, then by contractor id.
func (r *Ranker) Rank(req models.MatchRequest, candidates []models.ContractorProfile, limit int) []models.MatchScore {
	scored := make([]models.MatchScore, 0, len(candidates))

	for _, c := range candidates {
		if c.CurrentJobs >= c.MaxConcurrentJobs {
			continue
		}
		if !c.AvailableAt(req.RequestedTime) {
			continue
		}
		if r.Guard != nil && r.Guard.HasOpenOffer(c.ID) {
			continue
		}

		distanceKm, etaMinutes, err := r.Geo.DistanceAndETA(req.CustomerLocation, c.LocationGeo)
		if err != nil {
			r.Logger.Warn("ranker: skipping contractor with bad coordinates",
				zap.String("contractorId", c.ID), zap.Error(err))
			continue
		}

		scored = append(scored, models.MatchScore{
			Contractor: c,
			DistanceKm: distanceKm,
			EtaMinutes: etaMinutes,
			Score:      r.score(req, c, distanceKm),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Contractor.ResponseMinutes != scored[j].Contractor.ResponseMinutes {
			return scored[i].Contractor.ResponseMinutes < scored[j].Contractor.ResponseMinutes
		}
		return scored[i].Contractor.ID < scored[j].Contractor.ID
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// score combines the normalised sub-scores with the request-adjusted weights.
func (r *Ranker) score(req models.MatchRequest, c models.ContractorProfile, distanceKm float64) float64 {
	proximityWeight := ProximityWeight
	if req.IsUrgent {
		proximityWeight = UrgentProximityWeight
	}
	reputationWeight := ReputationWeight
	if req.IsPremium {
		reputationWeight = PremiumReputationWeight
	}

	proximity := 1 / (1 + distanceKm)

	// Rating discounted by history depth so a thin 5-star record does not
	// outrank a deep 4.8-star one.
	rating := c.Rating
	if rating > 5 {
		rating = 5
	}
	historyFactor := math.Log1p(float64(c.CompletedJobs)) / math.Log1p(CompletedJobsSaturation)
	if historyFactor > 1 {
		historyFactor = 1
	}
	reputation := (rating / 5) * historyFactor

	reliability := c.AcceptanceRate
	if reliability < 0 {
		reliability = 0
	} else if reliability > 1 {
		reliability = 1
	}

	responsiveness := 1 / (1 + c.ResponseMinutes/ResponseHalfLifeMinutes)

	var bonus float64
	certified, specialised := c.HasCredential(req.ServiceID)
	if certified {
		bonus += CertificationBonus
	}
	if specialised {
		bonus += SpecialtyBonus
	}

	return proximityWeight*proximity +
		reputationWeight*reputation +
		ReliabilityWeight*reliability +
		ResponsivenessWeight*responsiveness +
		bonus
}
