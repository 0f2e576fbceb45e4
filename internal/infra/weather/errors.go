package weather

import "errors"

var ErrUnexpectedStatus = errors.New("unexpected status code")
