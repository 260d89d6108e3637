package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fixmate/services/pricing"
	"fixmate/utils"
)

// ServicesHandler exposes the service catalog and price quoting.
type ServicesHandler struct {
	Calculator *pricing.Calculator
}

func NewServicesHandler(calc *pricing.Calculator) *ServicesHandler {
	return &ServicesHandler{Calculator: calc}
}

// ListServices returns the catalog of bookable service categories.
func (h *ServicesHandler) ListServices(c *gin.Context) {
	servicesMap := pricing.GetServicesMap()
	services := make([]pricing.ServiceDetails, 0, len(servicesMap))
	for _, details := range servicesMap {
		services = append(services, details)
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// QuotePrice returns the customer-facing price for a service, with the
// premium markup applied when requested.
func (h *ServicesHandler) QuotePrice(c *gin.Context) {
	serviceID := c.Param("serviceID")
	premium, _ := strconv.ParseBool(c.DefaultQuery("premium", "false"))

	basePrice, err := pricing.BasePriceFor(serviceID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "unknown service", serviceID)
		return
	}

	price, err := h.Calculator.Price(basePrice, premium)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to quote price", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"serviceId": serviceID,
		"premium":   premium,
		"basePrice": basePrice,
		"price":     price,
	})
}
