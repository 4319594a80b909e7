package domain

import "errors"

// ErrSceneNotFound is returned when a scene name cannot be found in the store.
var ErrSceneNotFound = errors.New("scene not found")

// ErrInvalidScene is returned when a scene document fails validation.
var ErrInvalidScene = errors.New("invalid scene")
