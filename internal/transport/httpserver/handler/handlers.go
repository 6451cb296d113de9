package handler

import (
	householddomain "household-app-go/internal/domain/household"
	productsdomain "household-app-go/internal/domain/products"
	recipesdomain "household-app-go/internal/domain/recipes"
	userdomain "household-app-go/internal/domain/user"
	"household-app-go/internal/transport/httpserver/handler/households"
	"household-app-go/internal/transport/httpserver/handler/products"
	"household-app-go/internal/transport/httpserver/handler/recipes"
	"household-app-go/pkg/logger"
)

// SyncRecorder counts identity provisioning outcomes.
type SyncRecorder interface {
	RecordIdentitySync(source string, err error)
}

type Services struct {
	Users      *userdomain.Service
	Households *householddomain.Service
	Products   *productsdomain.Service
	Recipes    *recipesdomain.Service
}

type Handlers struct {
	Common     *Common
	Households *households.Handlers
	Products   *products.Handlers
	Recipes    *recipes.Handlers
}

func New(services Services, webhookSecret string, recorder SyncRecorder, log logger.Logger) *Handlers {
	return &Handlers{
		Common: &Common{
			Users:         services.Users,
			webhookSecret: webhookSecret,
			recorder:      recorder,
			log:           log,
		},
		Households: households.New(services.Households, log),
		Products:   products.New(services.Products, log),
		Recipes:    recipes.New(services.Recipes, log),
	}
}
