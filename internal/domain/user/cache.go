package user

// Cache memoises external id -> internal user id lookups.
type Cache interface {
	Get(externalID string) (string, bool)
	Set(externalID, userID string)
	Delete(externalID string)
}

type noopCache struct{}

func (noopCache) Get(string) (string, bool) {
	return "", false
}

func (noopCache) Set(string, string) {}

func (noopCache) Delete(string) {}
