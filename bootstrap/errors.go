package bootstrap

import "errors"

// ErrAlreadyStored signifies an Insert of an address already present
// in the cache.
var ErrAlreadyStored = errors.New("bootstrap: address already stored")
