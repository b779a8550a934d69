package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/stay-assistant/internal/domain/hotels"
)

// Handler wires the HTTP transport to the hotel lookup service.
type Handler struct {
	svc    hotels.Service
	logger *slog.Logger
}

// NewHandler constructs the lookup HTTP handler.
func NewHandler(svc hotels.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("component", "http.handler")}
}

// Root reports that the service is up.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Service is running...", "result": true})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SearchHotels handles GET /hotels?city=&amenities=&ratings=.
func (h *Handler) SearchHotels(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "city query parameter is required", nil))
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), hotels.SearchQuery{
		City:      city,
		Amenities: c.QueryArray("amenities"),
		Ratings:   c.QueryArray("ratings"),
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CityCode handles GET /hotels/city/:city.
func (h *Handler) CityCode(c *gin.Context) {
	resp, err := h.svc.City(c.Request.Context(), c.Param("city"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HotelByID handles GET /hotels/id/:hotel_id.
func (h *Handler) HotelByID(c *gin.Context) {
	hotel, err := h.svc.HotelByID(c.Request.Context(), c.Param("hotel_id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// HotelReview handles GET /hotels/review/:hotel_id.
func (h *Handler) HotelReview(c *gin.Context) {
	sentiment, err := h.svc.Sentiments(c.Request.Context(), c.Param("hotel_id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, sentiment)
}
