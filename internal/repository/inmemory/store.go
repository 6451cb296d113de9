package inmemory

import (
	"maps"
	"sync"
	"time"

	"household-app-go/internal/domain/household"
	"household-app-go/internal/domain/products"
	"household-app-go/internal/domain/recipes"
	"household-app-go/internal/domain/user"
)

// Store keeps every table in process memory. Transactions are serialised and
// roll back by restoring a snapshot taken when they start.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data tables
	last time.Time
}

type tables struct {
	users       map[string]user.User
	allowed     map[string]user.AllowedEmail
	households  map[string]household.Household
	members     map[string]household.Member
	products    map[string]products.Product
	recipes     map[string]recipes.Recipe
	ingredients map[string]recipes.Ingredient
	favorites   map[string]recipes.Favorite
}

func NewStore() *Store {
	return &Store{data: tables{
		users:       map[string]user.User{},
		allowed:     map[string]user.AllowedEmail{},
		households:  map[string]household.Household{},
		members:     map[string]household.Member{},
		products:    map[string]products.Product{},
		recipes:     map[string]recipes.Recipe{},
		ingredients: map[string]recipes.Ingredient{},
		favorites:   map[string]recipes.Favorite{},
	}}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Households() *HouseholdRepository {
	return &HouseholdRepository{store: s}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{store: s}
}

func (s *Store) Recipes() *RecipeRepository {
	return &RecipeRepository{store: s}
}

// transaction runs fn under the store-wide transaction lock. Nested calls
// join the outer transaction.
func (s *Store) transaction(inTx bool, fn func() error) error {
	if inTx {
		return fn()
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// now returns strictly increasing timestamps so insertion order survives
// sorting by created_at. Callers hold s.mu.
func (s *Store) now() time.Time {
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func (t tables) clone() tables {
	return tables{
		users:       maps.Clone(t.users),
		allowed:     maps.Clone(t.allowed),
		households:  maps.Clone(t.households),
		members:     maps.Clone(t.members),
		products:    maps.Clone(t.products),
		recipes:     maps.Clone(t.recipes),
		ingredients: maps.Clone(t.ingredients),
		favorites:   maps.Clone(t.favorites),
	}
}

func (t tables) deleteMembersWhere(match func(household.Member) bool) {
	for id, member := range t.members {
		if match(member) {
			delete(t.members, id)
		}
	}
}

func (t tables) deleteRecipeRowsWhere(match func(recipeID, householdID string) bool) {
	for id, ingredient := range t.ingredients {
		if match(ingredient.RecipeID, ingredient.HouseholdID) {
			delete(t.ingredients, id)
		}
	}
	for id, favorite := range t.favorites {
		if match(favorite.RecipeID, favorite.HouseholdID) {
			delete(t.favorites, id)
		}
	}
}
