package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1, 0}, ConvertToFloat32([]float64{0.5, -1, 0}))
	assert.Empty(t, ConvertToFloat32(nil))
}
