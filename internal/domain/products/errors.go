package products

import "household-app-go/internal/domain/access"

var (
	ErrProductNotFound = access.NotFound("product_not_found", "product not found")
	ErrNameTaken       = access.Conflict("product_name_taken", "a product with this name already exists in the household")
	ErrInvalidCategory = access.Invalid("invalid_request", "unknown product category")
	ErrInvalidUnit     = access.Invalid("invalid_request", "unknown unit")
)
