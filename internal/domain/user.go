package domain

import "time"

// User is a profile keyed by the identity provider's uid. ReviewCount is an
// aggregate owned by the review write path.
type User struct {
	ID                 string    `json:"uid"`
	DisplayName        string    `json:"display_name"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	FavoriteCuisines   []string  `json:"favorite_cuisines"`
	ReviewCount        int       `json:"review_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PrefersVegetarian reports whether the profile lists a vegetarian dietary
// preference.
func (u *User) PrefersVegetarian() bool {
	for _, p := range u.DietaryPreferences {
		if p == "vegetarian" {
			return true
		}
	}
	return false
}

// FavorsCuisine reports whether the given cuisine is among the profile's
// favorites.
func (u *User) FavorsCuisine(cuisine string) bool {
	for _, c := range u.FavoriteCuisines {
		if c == cuisine {
			return true
		}
	}
	return false
}
