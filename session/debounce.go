package session

import (
	"sync"
	"time"
)

// Debounce devuelve una función que pospone la ejecución de fn hasta que
// pasan delay sin nuevas llamadas. Varias llamadas seguidas colapsan en una
// sola ejecución con el último valor.
func Debounce[T any](delay time.Duration, fn func(T)) func(T) {
	var mu sync.Mutex
	var timer *time.Timer

	return func(value T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			fn(value)
		})
	}
}
