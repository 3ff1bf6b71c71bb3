package storage

import "errors"

// ErrNotExist is returned by Storage.Load when the durable record is absent.
var ErrNotExist = errors.New("durable record does not exist")
