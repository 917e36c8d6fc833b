package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns a short human-facing order reference
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateBranchCode derives an uppercase code from a branch name
func GenerateBranchCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == 4 {
			break
		}
	}
	return b.String() + "-" + strings.ToUpper(uuid.New().String()[:4])
}
