package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/veganlens/backend/internal/domain"
)

// DefaultImageBaseURL is the Open Food Facts product image root
const DefaultImageBaseURL = "https://images.openfoodfacts.org/images/products"

// defaultImageID is used when no front image id is available
const defaultImageID = "1"

// ImageResolver derives CDN front-image URLs from barcodes
type ImageResolver struct {
	baseURL string
}

// NewImageResolver creates a resolver rooted at baseURL
func NewImageResolver(baseURL string) *ImageResolver {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return &ImageResolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FrontImageURL returns the front image URL for a product.
// The second return value is false when the identifier is missing.
func (r *ImageResolver) FrontImageURL(id string, images *domain.RawImages) (string, bool) {
	if id == "" {
		return "", false
	}

	imageID := selectImageID(images)
	return r.baseURL + "/" + segmentBarcode(id) + "/" + imageID + ".400.jpg", true
}

// selectImageID picks the German front image, then the English one.
// A selected entry without an imgid yields the default id.
func selectImageID(images *domain.RawImages) string {
	if images == nil {
		return defaultImageID
	}

	var entry *domain.RawImage
	switch {
	case images.FrontDE != nil:
		entry = images.FrontDE
	case images.FrontEN != nil:
		entry = images.FrontEN
	default:
		return defaultImageID
	}

	return imageIDString(entry.ImageID)
}

func imageIDString(v domain.Value) string {
	switch v.Kind {
	case domain.ValueInteger:
		if v.Int >= 0 {
			return strconv.FormatUint(uint64(v.Int), 10)
		}
		return strconv.FormatInt(v.Int, 10)
	case domain.ValueFloat:
		if v.Float >= 0 && v.Float == math.Trunc(v.Float) && v.Float < math.MaxUint64 {
			return strconv.FormatUint(uint64(v.Float), 10)
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case domain.ValueText:
		return strings.ReplaceAll(v.Text, `"`, "")
	default:
		return defaultImageID
	}
}

// segmentBarcode splits a barcode into the image storage path layout.
// Barcodes of up to 8 digits are used as a single segment.
func segmentBarcode(id string) string {
	var offsets []int
	switch {
	case len(id) > 9:
		offsets = []int{9, 6, 3}
	case len(id) > 8:
		offsets = []int{6, 3}
	default:
		return id
	}

	// Offsets are applied from the back so earlier cuts don't shift later ones
	out := id
	for _, off := range offsets {
		out = out[:off] + "/" + out[off:]
	}
	return out
}
