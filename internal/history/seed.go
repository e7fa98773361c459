package history

import "time"

// SeedRecords returns the sample history the dashboard starts with.
func SeedRecords() []Record {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2025, time.November, day, hour, minute, 0, 0, time.UTC)
	}
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }

	return []Record{
		{ID: 1, Filename: "perro_golden_retriever.jpg", Image: "https://images.unsplash.com/photo-1682122061022-8794ffae3b13",
			ImageAlt: "Golden retriever dog sitting on grass in sunny park with tongue out", PredictedCategory: "Perro",
			Confidence: 0.94, CategoryType: TypeAnimals, ProcessedAt: at(7, 10, 30), ProcessingTime: ms(1250)},
		{ID: 2, Filename: "camiseta_azul_casual.jpg", Image: "https://images.unsplash.com/photo-1697912184338-15919f458f9a",
			ImageAlt: "Blue casual t-shirt laid flat on white background", PredictedCategory: "Camiseta",
			Confidence: 0.87, CategoryType: TypeClothing, ProcessedAt: at(7, 9, 15), ProcessingTime: ms(980)},
		{ID: 3, Filename: "gato_persa_blanco.jpg", Image: "https://images.unsplash.com/photo-1523988992-11248dcba996",
			ImageAlt: "White Persian cat with blue eyes sitting on soft cushion", PredictedCategory: "Gato",
			Confidence: 0.91, CategoryType: TypeAnimals, ProcessedAt: at(6, 16, 45), ProcessingTime: ms(1100)},
		{ID: 4, Filename: "pizza_margherita.jpg", Image: "https://images.unsplash.com/photo-1723132266836-d069029f861b",
			ImageAlt: "Fresh margherita pizza with basil leaves on wooden table", PredictedCategory: "Pizza",
			Confidence: 0.89, CategoryType: TypeFood, ProcessedAt: at(6, 14, 20), ProcessingTime: ms(1350)},
		{ID: 5, Filename: "coche_sedan_rojo.jpg", Image: "https://images.unsplash.com/photo-1708908864692-1a408142902b",
			ImageAlt: "Red sedan car parked on city street during daytime", PredictedCategory: "Automóvil",
			Confidence: 0.76, CategoryType: TypeVehicles, ProcessedAt: at(5, 11, 30), ProcessingTime: ms(1450)},
		{ID: 6, Filename: "zapatos_deportivos.jpg", Image: "https://images.unsplash.com/photo-1591852699151-6791979ae0a0",
			ImageAlt: "White athletic sneakers with blue accents on wooden floor", PredictedCategory: "Calzado Deportivo",
			Confidence: 0.83, CategoryType: TypeClothing, ProcessedAt: at(5, 8, 45), ProcessingTime: ms(1180)},
		{ID: 7, Filename: "hamburguesa_completa.jpg", Image: "https://images.unsplash.com/photo-1550950158-d0d960dff51b",
			ImageAlt: "Gourmet burger with lettuce, tomato and cheese on sesame bun", PredictedCategory: "Hamburguesa",
			Confidence: 0.92, CategoryType: TypeFood, ProcessedAt: at(4, 19, 15), ProcessingTime: ms(1050)},
		{ID: 8, Filename: "pájaro_canario.jpg", Image: "https://images.unsplash.com/photo-1697122056964-70cd3ae380a1",
			ImageAlt: "Yellow canary bird perched on thin branch with green background", PredictedCategory: "Pájaro",
			Confidence: 0.88, CategoryType: TypeAnimals, ProcessedAt: at(4, 15, 30), ProcessingTime: ms(1200)},
		{ID: 9, Filename: "chaqueta_cuero_negra.jpg", Image: "https://images.unsplash.com/photo-1543202955-e0eda1061132",
			ImageAlt: "Black leather jacket hanging on wooden hanger against white wall", PredictedCategory: "Chaqueta",
			Confidence: 0.79, CategoryType: TypeClothing, ProcessedAt: at(3, 12, 10), ProcessingTime: ms(1380)},
		{ID: 10, Filename: "motocicleta_deportiva.jpg", Image: "https://images.unsplash.com/photo-1705460899165-c7d3804fd37f",
			ImageAlt: "Blue sport motorcycle parked on asphalt road with mountain background", PredictedCategory: "Motocicleta",
			Confidence: 0.85, CategoryType: TypeVehicles, ProcessedAt: at(3, 9, 25), ProcessingTime: ms(1320)},
	}
}
