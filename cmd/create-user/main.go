// CLI tool to create a user with bcrypt-hashed password and a default cut
// profile (157 class, weekly protocol, no weigh-in scheduled).
// Usage: go run ./cmd/create-user (from the repo root)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username: ")
	email := prompt(reader, "Email: ")
	password := prompt(reader, "Password: ")

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required.")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var userID int
	err = conn.QueryRow(ctx,
		`INSERT INTO users (username, email, auth_token, password)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, uuid.NewString(), string(hash)).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	// Every user gets a profile row so GET /api/profile never 404s for a
	// fresh account; onboarding just PATCHes it.
	_, err = conn.Exec(ctx,
		`INSERT INTO cut_profiles (user_id, current_weight_lbs, weight_class_lbs, protocol)
		 VALUES ($1, 0, 157, 'weekly')`, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating default profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created user %q (id %d) with a default cut profile.\n", username, userID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
