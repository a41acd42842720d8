// Package http provides HTTP handlers for the catalog item endpoints.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogDomain "github.com/allisson/catalog/internal/catalog/domain"
	"github.com/allisson/catalog/internal/catalog/http/dto"
	catalogUseCase "github.com/allisson/catalog/internal/catalog/usecase"
	apperrors "github.com/allisson/catalog/internal/errors"
	"github.com/allisson/catalog/internal/httputil"
	customValidation "github.com/allisson/catalog/internal/validation"
)

// EventPublishedHeader is set to "false" when an item was created but its event was not
// published.
const EventPublishedHeader = "X-Event-Published"

// CatalogItemHandler handles HTTP requests for catalog items.
type CatalogItemHandler struct {
	catalogItemUseCase catalogUseCase.CatalogItemUseCase
	logger             *slog.Logger
}

// NewCatalogItemHandler creates a new catalog item handler.
func NewCatalogItemHandler(
	catalogItemUseCase catalogUseCase.CatalogItemUseCase,
	logger *slog.Logger,
) *CatalogItemHandler {
	return &CatalogItemHandler{
		catalogItemUseCase: catalogItemUseCase,
		logger:             logger,
	}
}

// ListHandler returns every catalog item ordered by name.
// GET /api/catalog-items - Returns 200 OK with a JSON array.
func (h *CatalogItemHandler) ListHandler(c *gin.Context) {
	views, err := h.catalogItemUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCatalogItemsToResponse(views))
}

// GetHandler retrieves a catalog item by ID.
// GET /api/catalog-items/:id - Returns 200 OK, 404 Not Found or 422 for a malformed id.
func (h *CatalogItemHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid catalog item ID format: must be a valid UUID"),
			h.logger)
		return
	}

	view, err := h.catalogItemUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCatalogItemToResponse(view))
}

// CreateHandler creates a catalog item.
// POST /api/catalog-items - Returns 201 Created with a Location header. When the item was
// stored but its event could not be published the response is still 201 and carries
// X-Event-Published: false.
func (h *CatalogItemHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCatalogItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	view, err := h.catalogItemUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		if view == nil || !apperrors.Is(err, catalogDomain.ErrPublishFailed) {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		h.logger.Warn("catalog item created without event",
			slog.String("catalog_item_id", view.ID.String()),
			slog.Any("error", err),
		)
		c.Header(EventPublishedHeader, "false")
	}

	c.Header("Location", fmt.Sprintf("/api/catalog-items/%s", view.ID))
	c.JSON(http.StatusCreated, dto.MapCatalogItemToResponse(view))
}
