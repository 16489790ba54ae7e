package api

import (
	"net/http"

	"github.com/beratbaran/flyticket/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/search", h.search)
	router.POST("", authRequired, h.create)
	router.PUT("/:id", authRequired, h.update)
	router.DELETE("/:id", authRequired, h.delete)
	router.PUT("/:id/seats", h.setSeats)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) search(c *gin.Context) {
	list, err := h.service.Search(c.Request.Context(), flights.SearchInput{
		FromCityID: c.Query("from_city"),
		ToCityID:   c.Query("to_city"),
		Date:       c.Query("date"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.CreateFlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	var patch flights.UpdateFlightInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setSeatsRequest struct {
	SeatsAvailable *int `json:"seats_available" binding:"required"`
}

func (h *FlightHandler) setSeats(c *gin.Context) {
	var req setSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.SetAvailableSeats(c.Request.Context(), c.Param("id"), *req.SeatsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
