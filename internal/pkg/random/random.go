// Package random generates opaque credentials from crypto/rand.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Token returns a 64-character hex string (256 bits of entropy), used for
// persisted single-use verification and reset tokens.
func Token() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("random: read: %v", err))
	}
	return hex.EncodeToString(b)
}

// OTP returns a 5-digit numeric one-time code.
func OTP() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("random: read: %v", err))
	}
	digits := make([]byte, 5)
	for i, n := range b {
		digits[i] = '0' + n%10
	}
	return string(digits)
}
