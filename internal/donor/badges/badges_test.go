package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	t.Run("zero donations earn nothing", func(t *testing.T) {
		assert.Empty(t, Compute(0, nil))
	})

	t.Run("first donation earns the first badge", func(t *testing.T) {
		assert.Equal(t, []string{"First Donation"}, Compute(1, nil))
	})

	t.Run("thresholds accumulate", func(t *testing.T) {
		assert.Equal(t,
			[]string{"First Donation", "Regular Donor", "Dedicated Donor"},
			Compute(10, nil))
	})

	t.Run("already held badges are not re-earned", func(t *testing.T) {
		got := Compute(10, []string{"First Donation", "Regular Donor"})
		assert.Equal(t, []string{"Dedicated Donor"}, got)
	})

	t.Run("idempotent after merge", func(t *testing.T) {
		existing := []string{"First Donation", "Regular Donor"}
		earned := Compute(10, existing)
		merged := Merge(existing, earned)
		assert.Empty(t, Compute(10, merged))
	})

	t.Run("full ladder at 100", func(t *testing.T) {
		got := Compute(100, nil)
		assert.Equal(t, []string{
			"First Donation", "Regular Donor", "Dedicated Donor",
			"Life Saver", "Hero Donor", "Legendary Donor",
		}, got)
	})
}

func TestMerge(t *testing.T) {
	t.Run("skips duplicates and preserves order", func(t *testing.T) {
		merged := Merge([]string{"First Donation"}, []string{"First Donation", "Regular Donor"})
		assert.Equal(t, []string{"First Donation", "Regular Donor"}, merged)
	})
}
