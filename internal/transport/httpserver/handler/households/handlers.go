package households

import (
	"net/http"

	householddomain "household-app-go/internal/domain/household"
	"household-app-go/pkg/logger"
)

type Handlers struct {
	Households *householddomain.Service
	log        logger.Logger
}

func New(households *householddomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Households: households,
		log:        log,
	}
}

func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}
