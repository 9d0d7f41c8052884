package memory

import (
	"github.com/google/uuid"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var demoNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9a55-2f0d7c9e1b44")

// DemoID id estable derivado del nombre (mismo nombre, mismo id entre arranques).
func DemoID(kind, name string) string {
	return uuid.NewSHA1(demoNamespace, []byte(kind+":"+name)).String()
}

type demoIngredient struct {
	name, unit, category string
}

var demoIngredients = []demoIngredient{
	{"Cerdo", entity.UnitKilogram, "Carnes"},
	{"Res", entity.UnitKilogram, "Carnes"},
	{"Pollo", entity.UnitKilogram, "Carnes"},
	{"Ajo", entity.UnitKilogram, "Verduras"},
	{"Cebolla", entity.UnitKilogram, "Verduras"},
	{"Jengibre", entity.UnitKilogram, "Verduras"},
	{"Tomate", entity.UnitKilogram, "Verduras"},
	{"Sal", entity.UnitKilogram, "Condimentos"},
	{"Pimienta", entity.UnitKilogram, "Condimentos"},
	{"Salsa de soya", entity.UnitLiter, "Salsas y aceites"},
	{"Aceite de cocina", entity.UnitLiter, "Salsas y aceites"},
	{"Vinagre", entity.UnitLiter, "Salsas y aceites"},
	{"Leche de coco", entity.UnitLiter, "Salsas y aceites"},
}

var demoMenu = map[string]map[string]string{
	"Adobo": {
		"Cerdo": "0.25", "Salsa de soya": "0.1", "Aceite de cocina": "0.1",
		"Ajo": "0.05", "Cebolla": "0.05", "Jengibre": "0.02",
	},
	"Pollo frito": {
		"Pollo": "0.35", "Aceite de cocina": "0.2", "Ajo": "0.02", "Sal": "0.01", "Pimienta": "0.005",
	},
	"Sinigang": {
		"Cerdo": "0.3", "Tomate": "0.1", "Cebolla": "0.1",
	},
	"Bicol Express": {
		"Cerdo": "0.3", "Leche de coco": "0.1", "Ajo": "0.03", "Cebolla": "0.05", "Jengibre": "0.02",
	},
	"Tinola": {
		"Pollo": "0.35", "Jengibre": "0.05", "Cebolla": "0.05", "Ajo": "0.02",
	},
	"Arroz blanco": {},
}

// NewDemoStore almacén con insumos, categorías y recetas de ejemplo, sin lotes.
// Los lotes se cargan por la API de compras para que el libro arranque en cero.
func NewDemoStore() *Store {
	s := NewStore()
	for _, di := range demoIngredients {
		catID := DemoID("category", di.category)
		s.AddCategory(entity.Category{ID: catID, Name: di.category})
		s.AddIngredient(entity.Ingredient{
			ID:         DemoID("ingredient", di.name),
			Name:       di.name,
			Unit:       di.unit,
			CategoryID: catID,
		})
	}
	for dish, recipe := range demoMenu {
		item := entity.MenuItem{ID: DemoID("menu", dish), Name: dish, IsAvailable: true}
		lines := make([]entity.RecipeLine, 0, len(recipe))
		for ing, qty := range recipe {
			lines = append(lines, entity.RecipeLine{
				IngredientID:   DemoID("ingredient", ing),
				QuantityNeeded: decimal.RequireFromString(qty),
			})
		}
		s.AddMenuItem(item, lines...)
	}
	return s
}
