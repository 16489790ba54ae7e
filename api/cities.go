package api

import (
	"net/http"

	"github.com/beratbaran/flyticket/internal/service/cities"
	"github.com/gin-gonic/gin"
)

type CityHandler struct {
	service cities.CityUseCase
}

func NewCityHandler(service cities.CityUseCase) *CityHandler {
	return &CityHandler{service: service}
}

func (h *CityHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.GET("", h.list)
	router.POST("", authRequired, h.create)
}

func (h *CityHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createCityRequest struct {
	Name string `json:"city_name"`
}

func (h *CityHandler) create(c *gin.Context) {
	var req createCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	city, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, city)
}
