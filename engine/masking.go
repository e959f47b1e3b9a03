// engine/masking.go
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/arbiterhq/arbiter/model"
)

// MaskValue renders a masked form of s for downstream consumers. Partial
// keeps the first and last character, full replaces every character, hash
// substitutes a hex sha256 digest.
func MaskValue(s string, maskingType model.MaskingType) string {
	switch maskingType {
	case model.MaskFull:
		return strings.Repeat("*", len(s))
	case model.MaskHash:
		sum := sha256.Sum256([]byte(s))
		return hex.EncodeToString(sum[:])
	default:
		if len(s) <= 2 {
			return strings.Repeat("*", len(s))
		}
		return s[:1] + strings.Repeat("*", len(s)-2) + s[len(s)-1:]
	}
}
