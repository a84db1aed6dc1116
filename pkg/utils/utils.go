package utils

import (
	"fmt"
	"log"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// RedactIdentity keeps only the last 4 characters of a user identity so cycle
// results and logs never carry a full phone number.
func RedactIdentity(identity string) string {
	if len(identity) <= 4 {
		return identity
	}
	return "..." + identity[len(identity)-4:]
}

func FormatMoney(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}
