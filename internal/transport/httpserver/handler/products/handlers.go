package products

import (
	"net/http"
	"time"

	productsdomain "household-app-go/internal/domain/products"
	"household-app-go/pkg/logger"
)

type Handlers struct {
	Products *productsdomain.Service
	log      logger.Logger
}

func New(products *productsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Products: products,
		log:      log,
	}
}

type productRequest struct {
	Icon        string                  `json:"icon"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Category    productsdomain.Category `json:"category"`
	DefaultUnit productsdomain.Unit     `json:"default_unit"`
}

type Response struct {
	ID          string                  `json:"id"`
	Icon        string                  `json:"icon"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Category    productsdomain.Category `json:"category"`
	DefaultUnit productsdomain.Unit     `json:"default_unit"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func (req productRequest) input() productsdomain.Input {
	return productsdomain.Input{
		Icon:        req.Icon,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		DefaultUnit: req.DefaultUnit,
	}
}

// ToResponse is shared with the recipe handlers, which embed products in
// ingredient rows.
func ToResponse(product productsdomain.Product) Response {
	return Response{
		ID:          product.ID,
		Icon:        product.Icon,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		DefaultUnit: product.DefaultUnit,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
