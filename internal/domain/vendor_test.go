package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSearchKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   [3]string
		want []string
	}{
		{
			name: "lowercases and splits on whitespace",
			in:   [3]string{"Sharma Chaat Corner", "North Indian", "Karol Bagh"},
			want: []string{"sharma", "chaat", "corner", "north", "indian", "karol", "bagh"},
		},
		{
			name: "drops short tokens",
			in:   [3]string{"KK Dosa", "", "T Nagar"},
			want: []string{"dosa", "nagar"},
		},
		{
			name: "deduplicates keeping first occurrence",
			in:   [3]string{"Juhu Juice Point", "Juice", "Juhu"},
			want: []string{"juhu", "juice", "point"},
		},
		{
			name: "all empty",
			in:   [3]string{"", "", ""},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSearchKeywords(tt.in[0], tt.in[1], tt.in[2])
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVendorHasLocation(t *testing.T) {
	lat, lon := 19.0760, 72.8777
	assert.True(t, (&Vendor{Latitude: &lat, Longitude: &lon}).HasLocation())
	assert.False(t, (&Vendor{Latitude: &lat}).HasLocation())
	assert.False(t, (&Vendor{}).HasLocation())
}

func TestUserPreferences(t *testing.T) {
	u := &User{
		DietaryPreferences: []string{"no-onion", "vegetarian"},
		FavoriteCuisines:   []string{"South Indian", "Chinese"},
	}
	assert.True(t, u.PrefersVegetarian())
	assert.True(t, u.FavorsCuisine("Chinese"))
	assert.False(t, u.FavorsCuisine("Mughlai"))

	empty := &User{}
	assert.False(t, empty.PrefersVegetarian())
	assert.False(t, empty.FavorsCuisine("Chinese"))
}
