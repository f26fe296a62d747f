package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a password or step-up PIN with bcrypt.
func HashSecret(secret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CompareSecret compares a plaintext password or PIN against its bcrypt hash.
func CompareSecret(hashed, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
}
