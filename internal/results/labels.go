package results

// Category types offered by the upload page.
const (
	TypeAnimals      = "animals"
	TypeClothing     = "clothing"
	TypeFood         = "food"
	TypeVehicles     = "vehicles"
	TypeObjects      = "objects"
	TypeNature       = "nature"
	TypeArchitecture = "architecture"
	TypeSports       = "sports"
)

var labels = map[string][]string{
	TypeAnimals:      {"Perro - Golden Retriever", "Perro - Labrador", "Perro - Cocker Spaniel", "Animal Doméstico", "Mamífero"},
	TypeClothing:     {"Camiseta", "Chaqueta", "Calzado Deportivo", "Pantalón", "Vestido"},
	TypeFood:         {"Pizza", "Hamburguesa", "Ensalada", "Pasta", "Postre"},
	TypeVehicles:     {"Automóvil", "Motocicleta", "Bicicleta", "Camión", "Autobús"},
	TypeObjects:      {"Silla", "Lámpara", "Teléfono", "Libro", "Reloj"},
	TypeNature:       {"Montaña", "Bosque", "Playa", "Lago", "Flor"},
	TypeArchitecture: {"Edificio Moderno", "Iglesia", "Puente", "Casa", "Torre"},
	TypeSports:       {"Fútbol", "Baloncesto", "Tenis", "Ciclismo", "Natación"},
}

// Types returns the category types in menu order.
func Types() []string {
	return []string{TypeAnimals, TypeClothing, TypeFood, TypeVehicles, TypeObjects, TypeNature, TypeArchitecture, TypeSports}
}

// KnownType reports whether t is one of Types.
func KnownType(t string) bool {
	_, ok := labels[t]
	return ok
}

// Labels returns the candidate labels of a category type. Unknown types get
// generic labels.
func Labels(categoryType string) []string {
	if l, ok := labels[categoryType]; ok {
		return l
	}
	return []string{"Objeto", "Escena", "Otros"}
}
