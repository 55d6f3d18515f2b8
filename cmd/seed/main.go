package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/cuckooblock/vendor-portal/config"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/db"
	"github.com/cuckooblock/vendor-portal/pkg/redis"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type adminSeed struct {
	Email    string
	Password string
}

func main() {
	email := flag.String("email", "", "admin email to create or promote")
	password := flag.String("password", "", "password used when the account does not exist yet")
	file := flag.String("file", "", "XLSX file with email and password columns")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	var seeds []adminSeed
	if *email != "" {
		seeds = append(seeds, adminSeed{Email: *email, Password: *password})
	}
	if *file != "" {
		fmt.Printf("Reading XLSX file: %s\n", *file)
		fromFile, err := readAdminsFromXLSX(*file)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
		seeds = append(seeds, fromFile...)
	}
	if len(seeds) == 0 {
		log.Fatal("Usage: seed -email <email> [-password <password>] | -file <admins.xlsx>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Total admins to seed: %d\n", len(seeds))
	if !*yes {
		fmt.Print("Do you want to proceed? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Seed cancelled.")
			return
		}
	}

	accountRepo := repository.NewAccountRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())
	authService := service.NewAuthService(accountRepo, profileRepo, redis.NewMemoryTokenStore(), cfg.Session.Secret, cfg.Session.TTL)
	accessService := service.NewAccessService(profileRepo)

	seeded, err := seedAdmins(context.Background(), seeds, accountRepo, authService, accessService)
	if err != nil {
		log.Fatal("Failed to seed admins:", err)
	}

	fmt.Println("Seed completed successfully!")
	fmt.Printf("Total admins seeded: %d\n", seeded)
}

// seedAdmins creates missing accounts and promotes every listed account to admin.
func seedAdmins(
	ctx context.Context,
	seeds []adminSeed,
	accounts repository.AccountRepository,
	auth service.AuthService,
	access service.AccessService,
) (int, error) {
	seeded := 0
	for _, s := range seeds {
		account, err := accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(s.Email)))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.Password == "" {
				return seeded, fmt.Errorf("account %s does not exist and no password was given", s.Email)
			}
			account, _, err = auth.SignUp(ctx, s.Email, s.Password)
		}
		if err != nil {
			return seeded, fmt.Errorf("account %s: %w", s.Email, err)
		}

		if err := access.PromoteToAdmin(ctx, account.ID); err != nil {
			return seeded, fmt.Errorf("promote %s: %w", s.Email, err)
		}
		fmt.Printf("  admin: %s (%s)\n", account.Email, account.ID)
		seeded++
	}
	return seeded, nil
}

func readAdminsFromXLSX(filePath string) ([]adminSeed, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("XLSX file has no data rows")
	}

	emailCol, passwordCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			emailCol = i
		case "password":
			passwordCol = i
		}
	}
	if emailCol < 0 {
		return nil, fmt.Errorf("missing email column")
	}

	var seeds []adminSeed
	for i, row := range rows[1:] {
		email := cell(row, emailCol)
		if email == "" {
			fmt.Printf("Warning: row %d has no email, skipping\n", i+2)
			continue
		}
		seeds = append(seeds, adminSeed{Email: email, Password: cell(row, passwordCol)})
	}
	return seeds, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
