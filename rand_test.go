package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRand_SameSeedSameRandomNumbers(t *testing.T) {
	r1 := NewRand(13)
	v1 := [10]int64{}
	for i := range v1 {
		v1[i] = r1.RInt(0, 1000000)
	}

	r2 := NewRand(13)
	v2 := [10]int64{}
	for i := range v2 {
		v2[i] = r2.RInt(0, 1000000)
	}

	assert.Equal(t, v1, v2)
}

func TestRand_DifferentSeedsDifferentRandomNumbers(t *testing.T) {
	r1 := NewRand(13)
	v1 := [10]int64{}
	for i := range v1 {
		v1[i] = r1.RInt(0, 1000000)
	}

	r2 := NewRand(14)
	v2 := [10]int64{}
	for i := range v2 {
		v2[i] = r2.RInt(0, 1000000)
	}

	assert.NotEqual(t, v1, v2)
}

func TestRand_ValuesStayInRange(t *testing.T) {
	RSeed(0)
	for range 1000 {
		v := RInt(5, 10)
		assert.GreaterOrEqual(t, v, int64(5))
		assert.LessOrEqual(t, v, int64(10))

		f := RFloat(-2.5, 2.5)
		assert.GreaterOrEqual(t, f, -2.5)
		assert.Less(t, f, 2.5)
	}
}
