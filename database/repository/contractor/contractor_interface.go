package contractorRepo

import "fixmate/models"

// ContractorSearchCriteria defines criteria for a candidate pool search.
type ContractorSearchCriteria struct {
	ServiceID     string
	MinRating     float64
	MaxDistanceKm float64
	LocationGeo   models.GeoPoint
	Limit         int
}

// ContractorRepository defines methods for contractor data access.
type ContractorRepository interface {
	// GetByID retrieves a contractor by its unique ID.
	GetByID(id string) (*models.ContractorProfile, error)
	// GetByService returns contractors certified or specialised in a service.
	GetByService(serviceID string) ([]models.ContractorProfile, error)
	// Create inserts a new contractor record.
	Create(contractor *models.ContractorProfile) error
	// Update modifies an existing contractor record.
	Update(contractor *models.ContractorProfile) error
	// Delete removes a contractor record by its ID.
	Delete(id string) error
	// Search performs a geo-anchored candidate pool search.
	Search(criteria ContractorSearchCriteria) ([]models.ContractorProfile, error)
}
