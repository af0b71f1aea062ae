package domain

// RawCatalogRecord is one import record as stored in the document store
type RawCatalogRecord struct {
	ID            string         `bson:"_id" json:"_id"` // also the EAN
	NameDE        string         `bson:"product_name_de,omitempty" json:"product_name_de,omitempty"`
	NameEN        string         `bson:"product_name_en,omitempty" json:"product_name_en,omitempty"`
	Brand         string         `bson:"brands,omitempty" json:"brands,omitempty"`
	IngredientsDE string         `bson:"ingredients_text_de,omitempty" json:"ingredients_text_de,omitempty"`
	IngredientsEN string         `bson:"ingredients_text_en,omitempty" json:"ingredients_text_en,omitempty"`
	Images        *RawImages     `bson:"images,omitempty" json:"images,omitempty"`
	Nutriments    *RawNutriments `bson:"nutriments,omitempty" json:"nutriments,omitempty"`
	StoresTags    []string       `bson:"stores_tags,omitempty" json:"stores_tags,omitempty"`
}

// RawImages holds the per-locale front image metadata
type RawImages struct {
	FrontDE *RawImage `bson:"front_de,omitempty" json:"front_de,omitempty"`
	FrontEN *RawImage `bson:"front_en,omitempty" json:"front_en,omitempty"`
}

// RawImage is a single image metadata entry; imgid is numeric or text
type RawImage struct {
	ImageID Value `bson:"imgid" json:"imgid"`
}

// RawNutriments holds the nine imported nutriment fields per 100g
type RawNutriments struct {
	EnergyKcal    Value `bson:"energy-kcal_100g" json:"energy-kcal_100g"`
	EnergyKJ      Value `bson:"energy-kj_100g" json:"energy-kj_100g"`
	Fat           Value `bson:"fat_100g" json:"fat_100g"`
	SaturatedFat  Value `bson:"saturated-fat_100g" json:"saturated-fat_100g"`
	Carbohydrates Value `bson:"carbohydrates_100g" json:"carbohydrates_100g"`
	Sugars        Value `bson:"sugars_100g" json:"sugars_100g"`
	Fiber         Value `bson:"fiber_100g" json:"fiber_100g"`
	Proteins      Value `bson:"proteins_100g" json:"proteins_100g"`
	Salt          Value `bson:"salt_100g" json:"salt_100g"`
}

// NormalizedProduct is the canonical document written to the search index
type NormalizedProduct struct {
	ID            string           `json:"id"`
	NameDE        string           `json:"name_de"`
	NameEN        string           `json:"name_en"`
	Brand         string           `json:"brand"`
	IngredientsDE string           `json:"ingredients_de"`
	IngredientsEN string           `json:"ingredients_en"`
	ImageURL      string           `json:"image_url,omitempty"`
	Nutriments    NutrimentDisplay `json:"nutriments"`
	Stores        []string         `json:"stores"`
}

// NutrimentDisplay holds the human-readable nutriment values
type NutrimentDisplay struct {
	EnergyKcal    string `json:"energy_kcal"`
	EnergyKJ      string `json:"energy_kj"`
	Fat           string `json:"fat"`
	SaturatedFat  string `json:"saturated_fat"`
	Carbohydrates string `json:"carbohydrates"`
	Sugars        string `json:"sugars"`
	Fiber         string `json:"fiber"`
	Proteins      string `json:"proteins"`
	Salt          string `json:"salt"`
}

// IndexHit is a single search index hit with the fields the query matched
type IndexHit struct {
	Product       NormalizedProduct
	MatchedFields []string
}

// SearchHit is one display-ready search result row
type SearchHit struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Highlights map[string]string `json:"highlights"`
	Locale     Locale            `json:"locale"`
}

// ResultList is the response to a free-text search
type ResultList struct {
	Query       string      `json:"query"`
	Locale      Locale      `json:"locale"`
	MatchesWith string      `json:"matchesWith"`
	Hits        []SearchHit `json:"hits"`
}

// DetailView is the display-ready projection of a single product
type DetailView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Ingredients string            `json:"ingredients"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Nutriments  map[string]string `json:"nutriments"`
	Stores      []string          `json:"stores"`
}

// ReindexReport summarizes a finished reindex run
type ReindexReport struct {
	Status       string `json:"status"`
	IndexedCount int    `json:"indexed_count"`
}
