package utils

import "time"

// Ternary es un operador ternario genérico
func Ternary[T any](condition bool, ifTrue, ifFalse T) T {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// TTL traduce los segundos de la interfaz de caché a una duración.
// Con secs <= 0 devuelve fallback.
func TTL(secs int, fallback time.Duration) time.Duration {
	return Ternary(secs > 0, time.Duration(secs)*time.Second, fallback)
}
