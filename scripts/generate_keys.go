//go:build ignore

// Generates a random signing key for the config administration routes.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	// 32 bytes gives a 256-bit signing key
	secret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generating signing key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to the service environment:")
	fmt.Printf("JWT_SECRET_KEY=%s\n", secret)
	fmt.Println()
	fmt.Println("Use a different key per environment and keep production keys in a secret manager.")
}
