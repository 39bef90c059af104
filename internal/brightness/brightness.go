// Package brightness reduces a video frame to a single 0-255 level.
package brightness

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/oshokin/lightlid/internal/domain/lid"
)

// Reducer turns a frame into one brightness level.
type Reducer func(img image.Image) int

// ErrUnknownMethod is returned by NewReducer for an unsupported method name.
var ErrUnknownMethod = errors.New("unknown brightness method")

// NewReducer returns the reducer for method ("scale" or "region").
// region is the side of the centre square used by the region method.
func NewReducer(method string, region int) (Reducer, error) {
	switch method {
	case "", "scale":
		return Level, nil
	case "region":
		return func(img image.Image) int {
			return RegionLevel(img, CentreSquare(img.Bounds(), region))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Level scales the whole frame down to one pixel and returns the mean of
// its red, green and blue channels.
func Level(img image.Image) int {
	if img == nil || img.Bounds().Empty() {
		return lid.MinLevel
	}

	pixel := image.NewRGBA(image.Rect(0, 0, 1, 1))
	draw.ApproxBiLinear.Scale(pixel, pixel.Bounds(), img, img.Bounds(), draw.Src, nil)

	return channelMean(pixel.RGBAAt(0, 0))
}

// RegionLevel returns the exact mean of (R+G+B)/3 over the pixels of rect
// that lie inside the frame. An empty intersection yields 0.
func RegionLevel(img image.Image, rect image.Rectangle) int {
	if img == nil {
		return lid.MinLevel
	}

	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return lid.MinLevel
	}

	var sum int

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) //nolint:forcetypeassert // RGBAModel always returns color.RGBA.
			sum += int(c.R) + int(c.G) + int(c.B)
		}
	}

	return clamp(sum / (3 * rect.Dx() * rect.Dy()))
}

// CentreSquare returns a side x side square centred in bounds.
func CentreSquare(bounds image.Rectangle, side int) image.Rectangle {
	if side < 1 {
		side = 1
	}

	cx := bounds.Min.X + bounds.Dx()/2
	cy := bounds.Min.Y + bounds.Dy()/2
	half := side / 2

	return image.Rect(cx-half, cy-half, cx-half+side, cy-half+side)
}

// Uniform returns a w x h frame filled with a grey of the given level.
func Uniform(level, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := uint8(clamp(level)) //nolint:gosec // Clamped to [0, 255].

	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: c, G: c, B: c, A: 0xff}}, image.Point{}, draw.Src)

	return img
}

func channelMean(c color.RGBA) int {
	return clamp((int(c.R) + int(c.G) + int(c.B)) / 3)
}

func clamp(level int) int {
	return min(max(level, lid.MinLevel), lid.MaxLevel)
}
