package entity

// Category agrupa insumos para las vistas de inventario (Carnes, Verduras, Salsas...).
type Category struct {
	ID   string
	Name string
}
