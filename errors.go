package imgfilter

import "errors"

// ErrInvalidArgument is returned for malformed kernels, empty images and
// out-of-range parameters. Returned errors wrap it with context; match with
// errors.Is.
var ErrInvalidArgument = errors.New("imgfilter: invalid argument")
