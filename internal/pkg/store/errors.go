package store

import "errors"

var ErrSettingsNotFound = errors.New("watch settings not found")
