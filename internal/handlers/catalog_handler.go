package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/services"
)

// CatalogHandler handles question catalog endpoints
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CatalogQuestionResponse represents one catalog question in API responses
type CatalogQuestionResponse struct {
	ID          string `json:"id"`
	Channel     string `json:"channel"`
	ChannelName string `json:"channel_name"`
	Factor      string `json:"factor"`
	FactorName  string `json:"factor_name"`
	Type        string `json:"type"`
	Prompt      string `json:"prompt"`
	Order       int    `json:"order"`
}

// CatalogResponse represents the full question catalog
type CatalogResponse struct {
	Questions []CatalogQuestionResponse `json:"questions"`
	Total     int                       `json:"total"`
	Channels  []ChannelInfo             `json:"channels"`
}

// ChannelInfo describes one transfer channel for frontend grouping
type ChannelInfo struct {
	Channel     string `json:"channel"`
	DisplayName string `json:"display_name"`
}

// GetCatalog handles GET /api/v1/catalog
// @Summary Get the question catalog
// @Description Returns all questions in instrument order with channel metadata
// @Tags Catalog
// @Produce json
// @Success 200 {object} CatalogResponse
// @Failure 500 {object} ErrorResponse
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	questions, err := h.catalogService.Catalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Question catalog could not be loaded",
		})
		return
	}

	resp := CatalogResponse{
		Questions: make([]CatalogQuestionResponse, len(questions)),
		Total:     len(questions),
	}

	for i, q := range questions {
		resp.Questions[i] = CatalogQuestionResponse{
			ID:          q.QuestionID,
			Channel:     string(q.Channel),
			ChannelName: q.Channel.DisplayName(),
			Factor:      string(q.Factor),
			FactorName:  q.Factor.DisplayName(),
			Type:        string(q.Type),
			Prompt:      q.Prompt,
			Order:       q.Order,
		}
	}

	for _, ch := range models.Channels() {
		resp.Channels = append(resp.Channels, ChannelInfo{
			Channel:     string(ch),
			DisplayName: ch.DisplayName(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers catalog handler routes
func (h *CatalogHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/catalog", h.GetCatalog)
}
