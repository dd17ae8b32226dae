// Command token mints a bearer token for the dashboard API.
//
//	go run ./cmd/token -subject ops -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/middleware"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("subject", "dashboard", "token subject, shown in request logs")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("DASHBOARD_JWT_SECRET"), "signing secret (defaults to DASHBOARD_JWT_SECRET)")
	flag.Parse()

	if len(*secret) < 32 {
		fmt.Fprintln(os.Stderr, "signing secret must be at least 32 characters long")
		os.Exit(1)
	}

	token, err := middleware.NewJWTService(*secret).GenerateToken(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
