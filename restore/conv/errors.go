package conv

import "errors"

// Errors returned by convolution operators and costs.
var (
	ErrNilSpace        = errors.New("conv: nil vector space")
	ErrUnsupportedRank = errors.New("conv: rank must be between 1 and 3")
	ErrNilPSF          = errors.New("conv: nil PSF")
	ErrPSFTooLarge     = errors.New("conv: PSF dimensions exceed object dimensions")
	ErrZeroPSF         = errors.New("conv: cannot normalize a PSF with zero sum")
	ErrBadCenter       = errors.New("conv: PSF center outside PSF support")
	ErrNoPSF           = errors.New("conv: no PSF installed")
	ErrNoData          = errors.New("conv: no data installed")
	ErrInvalidWeight   = errors.New("conv: weights must be finite and non-negative")
	ErrUnsupportedJob  = errors.New("conv: unsupported job")
)
