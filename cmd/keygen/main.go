package main

import (
	"fmt"
	"os"

	"github.com/askohn/plugweb/internal/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <api-key>")
		fmt.Println("Prints the SHA-256 hash of an API key for use in config.yaml")
		os.Exit(1)
	}

	raw := os.Args[1]
	keyHash := auth.HashKey(raw)

	fmt.Printf("API Key: %s\n", raw)
	fmt.Printf("SHA-256 Hash: %s\n", keyHash)
	fmt.Println("\nAdd this to your config.yaml:")
	fmt.Printf("auth:\n")
	fmt.Printf("  keys:\n")
	fmt.Printf("    - key_hash: \"%s\"\n", keyHash)
	fmt.Printf("      user_id: \"<user id>\"\n")
	fmt.Printf("      name: \"<display name>\"\n")
	fmt.Printf("      role: \"author\"\n")
}
