// Package utils provides utility functions for the application.
package utils

import "math"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
