// README: Issues a development JWT for exercising authenticated routes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"unipool/internal/infra"
	"unipool/internal/types"
)

func main() {
	userID := flag.Int64("user", 1, "user id claim")
	role := flag.String("role", "driver", "role claim (driver or admin)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("UNIPOOL_JWT_SECRET")
	if secret == "" {
		log.Fatal("UNIPOOL_JWT_SECRET is required")
	}

	token, err := infra.SignToken(secret, types.ID(*userID), *role, time.Now().Add(*ttl).Unix())
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
