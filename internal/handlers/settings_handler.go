package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laily-api/internal/models"
	"laily-api/internal/responses"
	"laily-api/internal/service"
)

type SettingsHandler struct {
	promoBar *service.PromoBarService
}

func NewSettingsHandler(promoBar *service.PromoBarService) *SettingsHandler {
	return &SettingsHandler{promoBar: promoBar}
}

// GET /api/settings/promo-bar
func (h *SettingsHandler) GetPromoBar(c *gin.Context) {
	bar, err := h.promoBar.Get(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "promo bar retrieved successfully", gin.H{"settings": bar})
}

// PUT /api/settings/promo-bar
func (h *SettingsHandler) UpdatePromoBar(c *gin.Context) {
	var patch models.PromoBarUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	bar, err := h.promoBar.Update(c.Request.Context(), patch)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "promo bar updated successfully", gin.H{"settings": bar})
}
