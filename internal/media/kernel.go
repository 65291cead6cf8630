package media

import (
	"strings"

	"screengen/internal/errors"
)

// Kernel identifies a resampling kernel. The set is fixed: backends map
// each name onto whatever their resampler calls it.
type Kernel string

// Supported resampling kernels.
const (
	KernelBilinear Kernel = "bilinear"
	KernelBicubic  Kernel = "bicubic"
	KernelPoint    Kernel = "point"
	KernelLanczos  Kernel = "lanczos"
	KernelSpline16 Kernel = "spline16"
	KernelSpline36 Kernel = "spline36"
	KernelSpline64 Kernel = "spline64"
)

// Kernels lists every supported kernel in display order.
var Kernels = []Kernel{
	KernelBilinear,
	KernelBicubic,
	KernelPoint,
	KernelLanczos,
	KernelSpline16,
	KernelSpline36,
	KernelSpline64,
}

// ParseKernel resolves a kernel by name, case-insensitively. Unknown
// names fail with an UnknownKernelError.
func ParseKernel(name string) (Kernel, error) {
	needle := Kernel(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Kernels {
		if k == needle {
			return k, nil
		}
	}
	return "", errors.NewUnknownKernelError(name)
}
