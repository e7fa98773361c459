package categories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// seedID derives a stable id so the sample categories keep their ids across
// runs.
func seedID(n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("image-classifier/category/%d", n))).String()
}

// SeedCategories returns the sample categories the page starts with.
func SeedCategories() []Category {
	day := func(month time.Month, d int) time.Time {
		return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
	}
	img := func(id int, url, alt string) SampleImage {
		return SampleImage{ID: id, URL: "https://images.unsplash.com/" + url, Alt: alt}
	}

	return []Category{
		{
			ID: seedID(1), Name: "Animales Domésticos",
			Description: "Clasificación de perros, gatos y otros animales domésticos comunes",
			Type:        TypeAnimals, Status: StatusActive, ConfidenceThreshold: 85,
			TotalClassifications: 1247, Accuracy: 94, LastUpdated: day(time.November, 2),
			SampleImages: []SampleImage{
				img(1, "photo-1635212756445-609dd132a8d7", "Golden retriever sentado en césped verde con lengua afuera"),
				img(2, "photo-1719947811208-5bf7e9c20dd5", "Gatito naranja y blanco acostado en superficie suave"),
				img(3, "photo-1627110914806-708eb65b082f", "Conejo blanco con orejas largas en jardín"),
				img(4, "photo-1727940642108-02345bdd9fb9", "Hámster dorado comiendo semillas en jaula"),
			},
		},
		{
			ID: seedID(2), Name: "Ropa y Accesorios",
			Description: "Identificación de prendas de vestir, zapatos y accesorios de moda",
			Type:        TypeClothing, Status: StatusActive, ConfidenceThreshold: 78,
			TotalClassifications: 892, Accuracy: 89, LastUpdated: day(time.November, 1),
			SampleImages: []SampleImage{
				img(5, "photo-1666358063213-9b7785eb71a9", "Camiseta azul colgada en percha de madera"),
				img(6, "photo-1697065687034-39a38a4e2382", "Par de zapatillas deportivas blancas sobre fondo gris"),
				img(7, "photo-1713880442898-0f151fba5e16", "Jeans azules doblados sobre superficie blanca"),
				img(8, "photo-1581859852030-493e6238ff38", "Reloj de pulsera plateado con correa de cuero negro"),
			},
		},
		{
			ID: seedID(3), Name: "Vehículos Urbanos",
			Description: "Clasificación de automóviles, motocicletas y transporte urbano",
			Type:        TypeVehicles, Status: StatusTraining, ConfidenceThreshold: 82,
			TotalClassifications: 456, Accuracy: 87, LastUpdated: day(time.October, 31),
			SampleImages: []SampleImage{
				img(9, "photo-1665116583037-0e4f7070e42c", "Automóvil sedan rojo estacionado en calle urbana"),
				img(10, "photo-1700025771709-f94583e80a5c", "Motocicleta deportiva negra en estacionamiento"),
				img(11, "photo-1645650343005-e8779e9181e2", "Autobús público azul en parada de transporte"),
			},
		},
		{
			ID: seedID(4), Name: "Comida Casera",
			Description: "Reconocimiento de platos caseros y comida tradicional",
			Type:        TypeFood, Status: StatusInactive, ConfidenceThreshold: 75,
			TotalClassifications: 234, Accuracy: 82, LastUpdated: day(time.October, 28),
			SampleImages: []SampleImage{
				img(12, "photo-1504864555732-86fdac4a83a8", "Plato de pasta con salsa de tomate y albahaca fresca"),
				img(13, "photo-1723682859507-248951637e0d", "Pizza casera con queso derretido y vegetales"),
				img(14, "photo-1627062815571-01d12fb35f91", "Ensalada verde con tomates cherry y aderezo"),
			},
		},
		{
			ID: seedID(5), Name: "Flores y Plantas",
			Description: "Identificación de especies de flores y plantas ornamentales",
			Type:        TypeCustom, Status: StatusActive, ConfidenceThreshold: 88,
			TotalClassifications: 678, Accuracy: 91, LastUpdated: day(time.October, 30),
			SampleImages: []SampleImage{
				img(15, "photo-1664353386122-ee5d9d2b2e99", "Rosa roja en plena floración con pétalos aterciopelados"),
				img(16, "photo-1632583957552-2aea93882203", "Girasol amarillo grande con centro oscuro"),
				img(17, "photo-1664463237081-7d51f1d19b09", "Tulipanes morados en jardín primaveral"),
				img(18, "photo-1614597408719-725367979df7", "Planta suculenta verde en maceta de terracota"),
			},
		},
	}
}
