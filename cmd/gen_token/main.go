package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	email := flag.String("email", "admin@helsingbuss.se", "email claim")
	role := flag.String("role", "admin", "role claim (admin or staff)")
	flag.Parse()

	secret := os.Getenv("APP_SIGNING_SECRET")
	if secret == "" {
		secret = "test-secret"
	}

	claims := jwt.MapClaims{
		"email": *email,
		"role":  *role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	fmt.Println(signedToken)
}
