package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotateAgesFramesWithoutClobbering(t *testing.T) {
	f := New(4, 2)

	a := []uint16{1, 1, 1, 1, 1, 1, 1, 1}
	b := []uint16{2, 2, 2, 2, 2, 2, 2, 2}
	c := []uint16{3, 3, 3, 3, 3, 3, 3, 3}

	f.Rotate(a)
	f.Rotate(b)
	f.Rotate(c)

	assert.Equal(t, uint16(3), f.Raw(0)[0])
	assert.Equal(t, uint16(2), f.Raw(1)[0])
	assert.Equal(t, uint16(1), f.Raw(2)[0])
}

func TestLPIsIndependentPerSlot(t *testing.T) {
	f := New(2, 2)
	lp0 := f.LP(0)
	lp0[0] = 42
	assert.NotEqual(t, lp0[0], f.LP(1)[0])
}

func TestWidthHeight(t *testing.T) {
	f := New(844, 505)
	assert.Equal(t, 844, f.Width())
	assert.Equal(t, 505, f.Height())
}
