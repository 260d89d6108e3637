package pricing

import "fmt"

// ServiceDetails describes one bookable service category.
type ServiceDetails struct {
	ID           string  `json:"id"`
	Icon         string  `json:"icon"`
	UnitType     string  `json:"unitType"`
	ProviderTerm string  `json:"providerTerm"`
	BasePrice    float64 `json:"basePrice"` // USD, per unit
}

// base price per service, in default currency USD
var servicesMap = map[string]ServiceDetails{
	"Cleaning": {
		ID:           "Cleaning",
		Icon:         "🧹",
		UnitType:     "hours",
		ProviderTerm: "Cleaners",
		BasePrice:    30,
	},
	"Handyman": {
		ID:           "Handyman",
		Icon:         "🔧",
		UnitType:     "hours",
		ProviderTerm: "Handymen",
		BasePrice:    45,
	},
	"Plumbing": {
		ID:           "Plumbing",
		Icon:         "🚰",
		UnitType:     "hours",
		ProviderTerm: "Plumbers",
		BasePrice:    60,
	},
	"Electrical": {
		ID:           "Electrical",
		Icon:         "⚡",
		UnitType:     "hours",
		ProviderTerm: "Electricians",
		BasePrice:    65,
	},
	"LawnCare": {
		ID:           "LawnCare",
		Icon:         "🌿",
		UnitType:     "hours",
		ProviderTerm: "Gardeners",
		BasePrice:    35,
	},
	"PetCare": {
		ID:           "PetCare",
		Icon:         "🐾",
		UnitType:     "hours",
		ProviderTerm: "Pet Sitters",
		BasePrice:    25,
	},
}

// GetServicesMap returns the static map of all service details.
func GetServicesMap() map[string]ServiceDetails {
	return servicesMap
}

// BasePriceFor returns the base price for a service category.
func BasePriceFor(serviceID string) (float64, error) {
	details, exists := servicesMap[serviceID]
	if !exists {
		return 0, fmt.Errorf("service with ID %s not found", serviceID)
	}
	return details.BasePrice, nil
}
