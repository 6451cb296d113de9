package products

import "time"

type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryMeat       Category = "meat"
	CategoryFish       Category = "fish"
	CategoryDairy      Category = "dairy"
	CategoryBakery     Category = "bakery"
	CategoryPantry     Category = "pantry"
	CategoryFrozen     Category = "frozen"
	CategoryBeverages  Category = "beverages"
	CategorySnacks     Category = "snacks"
	CategoryCondiments Category = "condiments"
	CategorySpices     Category = "spices"
	CategoryHousehold  Category = "household"
	CategoryOther      Category = "other"
)

var categories = map[Category]struct{}{
	CategoryFruits: {}, CategoryVegetables: {}, CategoryMeat: {}, CategoryFish: {},
	CategoryDairy: {}, CategoryBakery: {}, CategoryPantry: {}, CategoryFrozen: {},
	CategoryBeverages: {}, CategorySnacks: {}, CategoryCondiments: {}, CategorySpices: {},
	CategoryHousehold: {}, CategoryOther: {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

type Unit string

const (
	UnitPiece      Unit = "piece"
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitTeaspoon   Unit = "tsp"
	UnitTablespoon Unit = "tbsp"
	UnitCup        Unit = "cup"
	UnitPinch      Unit = "pinch"
	UnitCan        Unit = "can"
	UnitPack       Unit = "pack"
)

var units = map[Unit]struct{}{
	UnitPiece: {}, UnitGram: {}, UnitKilogram: {}, UnitMilliliter: {}, UnitLiter: {},
	UnitTeaspoon: {}, UnitTablespoon: {}, UnitCup: {}, UnitPinch: {}, UnitCan: {}, UnitPack: {},
}

func (u Unit) Valid() bool {
	_, ok := units[u]
	return ok
}

type Product struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	HouseholdID string    `gorm:"type:uuid;not null;index:idx_products_household_name,priority:1;index:idx_products_household_category,priority:1"`
	Icon        string    `gorm:"not null"`
	Name        string    `gorm:"not null;index:idx_products_household_name,priority:2"`
	Description *string   `gorm:"type:text"`
	Category    Category  `gorm:"type:varchar(32);not null;index:idx_products_household_category,priority:2"`
	DefaultUnit Unit      `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (p Product) HouseholdKey() string {
	return p.HouseholdID
}

type Input struct {
	Icon        string
	Name        string
	Description *string
	Category    Category
	DefaultUnit Unit
}
