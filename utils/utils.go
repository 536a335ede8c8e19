package utils

import (
	"fmt"
	"math/rand"
	"time"
)

func ShortenString(s string, l int) string {
	if len(s) > l && l != 0 {
		return fmt.Sprintf("%s...", s[:l])
	}
	return s
}

// RandomDuration returns a duration uniformly drawn from [min, max].
// Used to pace page interactions so their timing is not obviously
// mechanical.
func RandomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
