// Forges a signed Stripe webhook delivery for local testing.
//
// Usage: go run scripts/sign_webhook.go <secret> <payload-file>
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pokemart/storefront/internal/domain/payment"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run scripts/sign_webhook.go <secret> <payload-file>")
	}

	secret := os.Args[1]
	payload, err := os.ReadFile(os.Args[2])
	if err != nil {
		log.Fatal("Error reading payload:", err)
	}

	header := payment.SignPayload(payload, secret, time.Now())

	fmt.Printf("Stripe-Signature: %s\n\n", header)
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/webhooks/stripe \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -H 'Stripe-Signature: %s' \\\n", header)
	fmt.Printf("  --data-binary @%s\n", os.Args[2])
}
