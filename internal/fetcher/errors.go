package fetcher

import "errors"

// ErrBadStatus is returned when http response had a non-2xx status.
var ErrBadStatus = errors.New("response status is not 2xx")
