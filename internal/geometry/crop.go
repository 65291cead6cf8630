package geometry

import (
	"fmt"

	"screengen/internal/errors"
)

// DefaultCropModulus is the margin alignment most downstream encoders
// require.
const DefaultCropModulus = 2

// CropGeometry holds symmetric crop margins. Top/bottom and left/right
// are kept equal to their counterpart by construction; after modulus
// adjustment each tested margin is a multiple of the modulus.
type CropGeometry struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// ResultSize returns the dimensions left after applying the margins to a
// clip of the given size.
func (g CropGeometry) ResultSize(src Dimensions) Dimensions {
	return Dimensions{
		Width:  src.Width - (g.Left + g.Right),
		Height: src.Height - (g.Top + g.Bottom),
	}
}

// Message returns the human-readable summary of the computed margins.
func (g CropGeometry) Message(src Dimensions) string {
	return fmt.Sprintf("Crop left=%d right=%d top=%d bottom=%d: %s -> %s",
		g.Left, g.Right, g.Top, g.Bottom, src, g.ResultSize(src))
}

// ComputeCrop computes symmetric crop margins fitting a clip of size src
// to the target dimensions. Margins start as the ceiling of half the
// difference per axis, then top and right are grown (with their
// counterparts) until each is a multiple of the modulus. Only top and
// right are tested; bottom and left track them, which keeps the crop
// symmetric by construction.
func ComputeCrop(src, target Dimensions, modulus int) (CropGeometry, error) {
	if modulus < 1 {
		return CropGeometry{}, errors.NewConfigError(fmt.Sprintf("crop modulus must be positive, got %d", modulus))
	}

	g := CropGeometry{}
	g.Top = ceilHalf(src.Height - target.Height)
	g.Bottom = g.Top
	g.Left = ceilHalf(src.Width - target.Width)
	g.Right = g.Left

	for g.Top%modulus != 0 {
		g.Top++
		g.Bottom++
	}
	for g.Right%modulus != 0 {
		g.Right++
		g.Left++
	}

	result := g.ResultSize(src)
	if result.Width <= 0 || result.Height <= 0 {
		return CropGeometry{}, errors.NewDegenerateCropError(result.Width, result.Height)
	}

	return g, nil
}

// ceilHalf returns ceil(n/2) clamped at zero: a target axis larger than
// the source yields no crop on that axis rather than a negative margin.
func ceilHalf(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}
