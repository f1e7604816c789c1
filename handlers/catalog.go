package handlers

import (
	"net/http"

	catalogRepo "tradewinds/database/repository/catalog"
	"tradewinds/models"
	"tradewinds/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the resort catalog and wizard options.
type CatalogHandler struct {
	Repo   catalogRepo.CatalogRepository
	Logger *zap.Logger
}

func NewCatalogHandler(repo catalogRepo.CatalogRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Repo: repo, Logger: logger}
}

// ListResorts handles GET /api/catalog/resorts.
func (h *CatalogHandler) ListResorts(c *gin.Context) {
	resorts, err := h.Repo.ListResorts(c.Request.Context())
	if err != nil {
		getLogger(c, h.Logger).Error("ListResorts: failed to load catalog", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load resorts", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resorts": resorts})
}

// ListOptions handles GET /api/catalog/options/:kind.
func (h *CatalogHandler) ListOptions(c *gin.Context) {
	kind := models.OptionKind(c.Param("kind"))
	switch kind {
	case models.OptionPurpose, models.OptionExperience, models.OptionPreference:
	default:
		utils.JSONError(c, http.StatusNotFound, "unknown option kind", string(kind))
		return
	}
	opts, err := h.Repo.ListOptions(c.Request.Context(), kind)
	if err != nil {
		getLogger(c, h.Logger).Error("ListOptions: failed to load options", zap.String("kind", string(kind)), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load options", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "options": opts})
}
