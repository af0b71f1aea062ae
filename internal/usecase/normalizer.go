package usecase

import (
	"github.com/veganlens/backend/internal/domain"
)

// Normalizer maps raw import records onto the indexed product schema
type Normalizer struct {
	images *ImageResolver
}

// NewNormalizer creates a normalizer using the given image resolver
func NewNormalizer(images *ImageResolver) *Normalizer {
	if images == nil {
		images = NewImageResolver("")
	}
	return &Normalizer{images: images}
}

// Normalize converts one raw record. Localized fields are copied as-is;
// locale fallback is applied at presentation time.
func (n *Normalizer) Normalize(record *domain.RawCatalogRecord) *domain.NormalizedProduct {
	product := &domain.NormalizedProduct{
		ID:            record.ID,
		NameDE:        record.NameDE,
		NameEN:        record.NameEN,
		Brand:         record.Brand,
		IngredientsDE: record.IngredientsDE,
		IngredientsEN: record.IngredientsEN,
		Nutriments:    normalizeNutriments(record.Nutriments),
		Stores:        record.StoresTags,
	}

	if url, ok := n.images.FrontImageURL(record.ID, record.Images); ok {
		product.ImageURL = url
	}

	if product.Stores == nil {
		product.Stores = []string{}
	}

	return product
}

func normalizeNutriments(raw *domain.RawNutriments) domain.NutrimentDisplay {
	if raw == nil {
		return domain.NutrimentDisplay{
			EnergyKcal:    domain.NotAvailable,
			EnergyKJ:      domain.NotAvailable,
			Fat:           domain.NotAvailable,
			SaturatedFat:  domain.NotAvailable,
			Carbohydrates: domain.NotAvailable,
			Sugars:        domain.NotAvailable,
			Fiber:         domain.NotAvailable,
			Proteins:      domain.NotAvailable,
			Salt:          domain.NotAvailable,
		}
	}

	return domain.NutrimentDisplay{
		EnergyKcal:    raw.EnergyKcal.DisplayString(),
		EnergyKJ:      raw.EnergyKJ.DisplayString(),
		Fat:           raw.Fat.DisplayString(),
		SaturatedFat:  raw.SaturatedFat.DisplayString(),
		Carbohydrates: raw.Carbohydrates.DisplayString(),
		Sugars:        raw.Sugars.DisplayString(),
		Fiber:         raw.Fiber.DisplayString(),
		Proteins:      raw.Proteins.DisplayString(),
		Salt:          raw.Salt.DisplayString(),
	}
}
