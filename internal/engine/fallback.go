package engine

import (
	"github.com/sirupsen/logrus"
)

// withFallback runs one signal computation and substitutes the signal's fixed
// default on any failure, including panics. Degraded signals are logged at
// warn level with the causing error and never propagate: this is the uniform
// resilience contract shared by every adapter. The second return value is
// false when the default was substituted.
func withFallback[T any](log *logrus.Entry, fallback T, fn func() (T, error)) (value T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("Signal computation panicked, using default")
			value = fallback
			ok = false
		}
	}()

	v, err := fn()
	if err != nil {
		log.WithError(err).Warn("Signal unavailable, using default")
		return fallback, false
	}
	return v, true
}
