package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deploydeck/deploydeck-backend/pkg/services"
)

type CacheHandler struct {
	CacheService *services.CacheService
}

func NewCacheHandler(cacheService *services.CacheService) *CacheHandler {
	return &CacheHandler{CacheService: cacheService}
}

// ClearAll clears every cache layer and reports the three-way outcome the
// presentation layer distinguishes: success, warning (partial) or error.
func (h *CacheHandler) ClearAll(c *gin.Context) {
	result, err := h.CacheService.ClearAllCachesComplete(c.Request.Context())
	outcome := services.ClassifyClearOutcome(result, err)
	if outcome == services.ClearOutcomeError {
		c.JSON(http.StatusInternalServerError, gin.H{"outcome": outcome, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outcome": outcome,
		"cleared": result.Cleared,
		"failed":  result.Failed,
	})
}
