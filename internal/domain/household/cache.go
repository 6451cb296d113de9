package household

import "household-app-go/internal/domain/access"

// Cache memoises public id -> household reference lookups for the gate.
type Cache interface {
	Get(publicID string) (*access.HouseholdRef, bool)
	Set(publicID string, ref *access.HouseholdRef)
	Delete(publicID string)
}

type noopCache struct{}

func (noopCache) Get(string) (*access.HouseholdRef, bool) {
	return nil, false
}

func (noopCache) Set(string, *access.HouseholdRef) {}

func (noopCache) Delete(string) {}
