package services

import "errors"

var errEmptySecret = errors.New("value is empty")
