// seed inserts an admin user and two sample courses into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/vkravchuk/courseshop/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@courseshop.local"
	adminPassword = "admin-local-password"
)

type courseSpec struct {
	nameEN   string
	nameUK   string
	priceUAH int64
	fileID   string
}

var courses = []courseSpec{
	{"Haircut basics", "Основи стрижки", 250000, "drive-file-basics"},
	{"Advanced fades", "Просунуті фейди", 420000, "drive-file-fades"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	// Upsert admin. The API has no admin-creation endpoint on purpose.
	var adminID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (user_name, email, password_hash, role)
		VALUES ('Admin', $1, $2, 'admin')
		ON CONFLICT (email) DO UPDATE SET role = 'admin', updated_at = NOW()
		RETURNING id`,
		adminEmail, string(hash),
	).Scan(&adminID)
	if err != nil {
		log.Fatalf("upsert admin: %v", err)
	}

	var inserted int
	for _, spec := range courses {
		tag, err := pool.Exec(ctx, `
			INSERT INTO courses (name_en, name_uk, price_uah, file_id)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (SELECT 1 FROM courses WHERE name_en = $1)`,
			spec.nameEN, spec.nameUK, spec.priceUAH, spec.fileID,
		)
		if err != nil {
			log.Fatalf("insert course %q: %v", spec.nameEN, err)
		}
		inserted += int(tag.RowsAffected())
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:           %s / %s\n", adminEmail, adminPassword)
	fmt.Printf("  Admin ID:        %s\n", adminID)
	fmt.Printf("  Courses created: %d  (skipped %d already existing)\n", inserted, len(courses)-inserted)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/v1/auth/signin \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", adminEmail, adminPassword)
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/v1/courses")
	fmt.Println("    curl -s http://localhost:8080/api/v1/users -H \"Authorization: Bearer $JWT\"")
}
