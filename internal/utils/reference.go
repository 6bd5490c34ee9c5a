package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReference generates a unique human-readable reference, used for
// reward redemptions
func GenerateReference(prefix string) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, 8)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}

	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, string(result))
}
