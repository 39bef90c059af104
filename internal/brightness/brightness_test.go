package brightness

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLevel_Uniform checks that a flat grey frame keeps its level.
func TestLevel_Uniform(t *testing.T) {
	t.Parallel()

	for _, level := range []int{0, 17, 128, 255} {
		require.Equal(t, level, Level(Uniform(level, 64, 48)), "level %d", level)
	}
}

// TestLevel_AveragesChannels uses a pure colour frame.
func TestLevel_AveragesChannels(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	require.Equal(t, 85, Level(img))
}

// TestLevel_Empty returns the darkest level for missing frames.
func TestLevel_Empty(t *testing.T) {
	t.Parallel()

	require.Zero(t, Level(nil))
	require.Zero(t, Level(image.NewRGBA(image.Rectangle{})))
}

// TestRegionLevel averages only the requested pixels.
func TestRegionLevel(t *testing.T) {
	t.Parallel()

	img := Uniform(0, 10, 10)
	img.SetRGBA(5, 5, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	img.SetRGBA(4, 5, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	require.Equal(t, 200, RegionLevel(img, image.Rect(5, 5, 6, 6)))
	require.Equal(t, 150, RegionLevel(img, image.Rect(4, 5, 6, 6)))
	require.Equal(t, 75, RegionLevel(img, image.Rect(4, 4, 6, 6)))
	require.Zero(t, RegionLevel(img, image.Rect(20, 20, 30, 30)))
	require.Zero(t, RegionLevel(nil, image.Rect(0, 0, 1, 1)))
}

// TestCentreSquare checks the geometry for odd and even sides.
func TestCentreSquare(t *testing.T) {
	t.Parallel()

	bounds := image.Rect(0, 0, 10, 10)
	require.Equal(t, image.Rect(4, 4, 6, 6), CentreSquare(bounds, 2))
	require.Equal(t, image.Rect(4, 4, 7, 7), CentreSquare(bounds, 3))
	require.Equal(t, image.Rect(5, 5, 6, 6), CentreSquare(bounds, 0))
}

// TestNewReducer selects the method by name.
func TestNewReducer(t *testing.T) {
	t.Parallel()

	img := Uniform(0, 10, 10)
	img.SetRGBA(5, 5, color.RGBA{R: 240, G: 240, B: 240, A: 255})

	region, err := NewReducer("region", 1)
	require.NoError(t, err)
	require.Equal(t, 240, region(img))

	scale, err := NewReducer("scale", 0)
	require.NoError(t, err)
	require.Less(t, scale(img), 240)

	_, err = NewReducer("median", 0)
	require.ErrorIs(t, err, ErrUnknownMethod)
}
