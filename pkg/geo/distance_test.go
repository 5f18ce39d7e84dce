package geo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0, Distance(19.0760, 72.8777, 19.0760, 72.8777), 1e-9)
	assert.InDelta(t, 0, Distance(0, 0, 0, 0), 1e-9)
	assert.InDelta(t, 0, Distance(-33.8688, 151.2093, -33.8688, 151.2093), 1e-9)
}

func TestDistance_Symmetric(t *testing.T) {
	for i := 0; i < 200; i++ {
		lat1 := rand.Float64()*180 - 90
		lon1 := rand.Float64()*360 - 180
		lat2 := rand.Float64()*180 - 90
		lon2 := rand.Float64()*360 - 180

		d1 := Distance(lat1, lon1, lat2, lon2)
		d2 := Distance(lat2, lon2, lat1, lon1)

		assert.InDelta(t, d1, d2, 1e-9)
		assert.GreaterOrEqual(t, d1, 0.0)
	}
}

func TestDistance_MumbaiToDelhi(t *testing.T) {
	// Gateway of India to Connaught Place, roughly 1150-1170 km.
	d := Distance(19.0760, 72.8777, 28.6139, 77.2090)
	assert.Greater(t, d, 1150.0)
	assert.Less(t, d, 1170.0)
}

func TestDistance_ShortRange(t *testing.T) {
	// Two points in central Mumbai about 2 km apart.
	d := Distance(19.0176, 72.8562, 19.0330, 72.8656)
	assert.Greater(t, d, 1.0)
	assert.Less(t, d, 3.0)
}
