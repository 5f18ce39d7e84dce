package domain

import (
	"strings"
	"time"
)

// Vendor categories recognised by the catalog.
const (
	CategoryChaat    = "Chaat"
	CategoryRolls    = "Rolls"
	CategoryMomos    = "Momos"
	CategoryDosa     = "Dosa"
	CategorySweets   = "Sweets"
	CategoryBiryani  = "Biryani"
	CategoryJuices   = "Juices"
	CategorySnacks   = "Snacks"
	CategoryTiffin   = "Tiffin"
	CategoryKebabs   = "Kebabs"
	CategoryChinese  = "Chinese"
	CategoryParathas = "Parathas"
)

// HygieneScores are the static self-reported hygiene sub-scores of a stall,
// distinct from the review-driven hygiene_rating aggregate.
type HygieneScores struct {
	Cleanliness int `json:"cleanliness"`
	Ingredients int `json:"ingredients"`
	WaterSafety int `json:"water_safety"`
}

// PriceRange describes the typical spend at a stall, in whole rupees.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
	Avg int `json:"avg"`
}

// Vendor represents a street-food stall. Rating, ReviewCount, HygieneRating,
// HygieneReviewCount and FavoriteCount are aggregates owned by the review and
// favorite write paths; they are never accepted from clients.
type Vendor struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Cuisine            string        `json:"cuisine"`
	Categories         []string      `json:"categories"`
	IsVegetarian       bool          `json:"is_vegetarian"`
	Area               string        `json:"area"`
	Latitude           *float64      `json:"latitude,omitempty"`
	Longitude          *float64      `json:"longitude,omitempty"`
	Hygiene            HygieneScores `json:"hygiene"`
	Rating             float64       `json:"rating"`
	ReviewCount        int           `json:"review_count"`
	HygieneRating      float64       `json:"hygiene_rating"`
	HygieneReviewCount int           `json:"hygiene_review_count"`
	FavoriteCount      int           `json:"favorite_count"`
	Price              PriceRange    `json:"price"`
	SearchKeywords     []string      `json:"-"`
	CreatedBy          string        `json:"created_by"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// HasLocation reports whether the vendor carries a usable coordinate pair.
func (v *Vendor) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// VendorWithDistance is a search projection: the vendor plus the distance
// from the caller's origin. The stored record is never mutated.
type VendorWithDistance struct {
	Vendor
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// DeriveSearchKeywords builds the keyword index for a vendor: lower-cased
// whitespace tokens of at least three characters drawn from the name, cuisine
// and area. Duplicates are removed, first occurrence wins.
func DeriveSearchKeywords(name, cuisine, area string) []string {
	fields := strings.Fields(strings.ToLower(name + " " + cuisine + " " + area))
	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 3 {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
