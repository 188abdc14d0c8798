package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	kathmandu := Coordinate{Latitude: 27.7172, Longitude: 85.3240}
	pokhara := Coordinate{Latitude: 28.2096, Longitude: 83.9856}

	t.Run("identical points are zero distance", func(t *testing.T) {
		assert.Zero(t, DistanceKm(kathmandu, kathmandu))
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		assert.Equal(t, DistanceKm(kathmandu, pokhara), DistanceKm(pokhara, kathmandu))
	})

	t.Run("kathmandu to pokhara is roughly 140km", func(t *testing.T) {
		d := DistanceKm(kathmandu, pokhara)
		assert.InDelta(t, 141, d, 5)
	})

	t.Run("antipodal points approach half the circumference", func(t *testing.T) {
		a := Coordinate{Latitude: 0, Longitude: 0}
		b := Coordinate{Latitude: 0, Longitude: 180}
		assert.InDelta(t, 20015, DistanceKm(a, b), 10)
	})
}
