package api

import (
	"net/http"

	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// VehicleHandler exposes the static vehicle catalog so clients can render
// class names and capacity limits.
type VehicleHandler struct {
	catalog *domain.Catalog
}

func NewVehicleHandler(catalog *domain.Catalog) *VehicleHandler {
	return &VehicleHandler{catalog: catalog}
}

func (h *VehicleHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
}

func (h *VehicleHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vehicles": h.catalog.Classes()})
}
