package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReversed(t *testing.T) {
	assert.Equal(t, []int{4, 3, 2, 1}, Reversed(4))
	assert.Empty(t, Reversed(0))
}

func TestClone_NilStaysNil(t *testing.T) {
	assert.Nil(t, Clone(nil))

	src := []int{1, 2}
	dup := Clone(src)
	dup[0] = 9
	assert.Equal(t, 1, src[0])
}

func TestInputs_Stable(t *testing.T) {
	assert.Equal(t, Inputs(), Inputs())
	assert.Empty(t, Inputs()["empty"])
	assert.Len(t, Inputs()["random_257"], 257)
}
