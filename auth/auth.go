// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AdminKeyHeader carries the admin key on mutating requests.
const AdminKeyHeader = "X-Admin-Key"

var ErrInvalidAdminKey = errors.New("invalid admin key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sign(electionID, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(electionID))
	return h.Sum(nil)
}

// GenerateAdminKey derives the admin key of an election. Keys are never
// stored: the same election ID and salt always give the same key.
func GenerateAdminKey(electionID, salt string) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sign(electionID, salt)), "=")
}

// ValidateAdminKey checks adminKey against the key derived for electionID.
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateShareSlug derives the short public identifier of an election
// from the first 8 bytes of its HMAC, base62 encoded.
func GenerateShareSlug(electionID, salt string) string {
	return base62Encode(sign(electionID, salt)[:8])
}

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// base62Encode encodes up to 8 bytes, read big-endian, with 0-9a-zA-Z.
func base62Encode(data []byte) string {
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}
	if num == 0 {
		return "0"
	}

	var buf [11]byte // 62^11 > 2^64
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base62Chars[num%62]
		num /= 62
	}
	return string(buf[i:])
}
