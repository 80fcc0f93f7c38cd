// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements the passwordless authentication primitives:
// one-time confirmation codes and self-contained bearer access tokens.
//
// Confirmation codes are HOTP values derived from a per-user secret and
// a per-user counter. Only the code for the user's current counter value
// is valid; issuing a new code bumps the counter, which invalidates every
// code issued before it. No redeemed-code bookkeeping is required.
package auth

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// codeSecretLen is the byte length of the per-user HOTP secret.
const codeSecretLen = 20

// codeOpts fixes the confirmation-code shape: eight digits, SHA-1 HOTP.
var codeOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsEight,
	Algorithm: otp.AlgorithmSHA1,
}

// NewCodeSecret generates a fresh random HOTP secret, base32-encoded
// without padding. One is assigned to each user at creation.
func NewCodeSecret() (string, error) {
	buf := make([]byte, codeSecretLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("code secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// GenerateCode derives the confirmation code for the given secret and
// counter value.
func GenerateCode(secret string, counter int64) (string, error) {
	code, err := hotp.GenerateCodeCustom(secret, uint64(counter), codeOpts)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return code, nil
}

// ValidateCode checks a submitted code against the user's secret and
// current counter. Codes issued for earlier counter values fail here,
// which is what makes reissuing a code invalidate its predecessors.
func ValidateCode(code, secret string, counter int64) bool {
	ok, err := hotp.ValidateCustom(code, uint64(counter), secret, codeOpts)
	return err == nil && ok
}
