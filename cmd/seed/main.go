// Command seed bootstraps the database with the admin account and,
// optionally, a demo customer with a sample order.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"orderdesk/internal/config"
	"orderdesk/internal/db"
	"orderdesk/internal/model"
	"orderdesk/internal/repository"
)

func main() {
	demo := flag.Bool("demo", false, "also create a demo customer with a sample order")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set to seed the admin account")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	ctx := context.Background()

	admin, err := ensureUser(ctx, userRepo, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, model.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	log.Printf("Admin account ready: %s (id=%d)", admin.Email, admin.ID)

	if !*demo {
		log.Println("Seed completed")
		return
	}

	customer, err := ensureUser(ctx, userRepo, "Demo Customer", "demo@orderdesk.local", "demo-secret", model.RoleUser)
	if err != nil {
		log.Fatalf("Failed to seed demo customer: %v", err)
	}

	order := &model.Order{
		UserID: customer.ID,
		Items: []model.OrderItem{
			{Name: "Widget", Quantity: 2, Price: decimal.NewFromFloat(5.0)},
		},
		TotalAmount: decimal.NewFromFloat(10.0),
		DeliveryAddress: model.DeliveryAddress{
			Street:  "1 Main",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62704",
			Country: "US",
		},
		Status: model.OrderStatusPending,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		log.Fatalf("Failed to seed demo order: %v", err)
	}

	log.Printf("Demo customer ready: %s (order %s)", customer.Email, order.ID)
	log.Println("Seed completed")
}

// ensureUser creates the user if it does not exist yet; an existing record
// is left untouched.
func ensureUser(ctx context.Context, repo repository.UserRepository, name, email, password, role string) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
