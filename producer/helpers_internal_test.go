package producer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdflayout/pdflayout"
)

func TestRadiansToDegrees(t *testing.T) {
	assert.InDelta(t, 90.0, radiansToDegrees(math.Pi/2), 0.0001)
	assert.InDelta(t, 180.0, radiansToDegrees(math.Pi), 0.0001)
	assert.Equal(t, 0.0, radiansToDegrees(0))
}

func TestIsPageBorder(t *testing.T) {
	pageHeight := 792.0
	border := pdflayout.Rectangle{MinX: 0, MinY: 0, MaxX: 612, MaxY: pageHeight}
	assert.True(t, isPageBorder(border, 1, pageHeight))

	small := pdflayout.Rectangle{MinX: 100, MinY: 100, MaxX: 200, MaxY: 150}
	assert.False(t, isPageBorder(small, 1, pageHeight))
}
