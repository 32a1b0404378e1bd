package main

import (
	"fmt"
	"log"
	"time"

	"motoshare/internal/bookings"
	"motoshare/internal/shared/config"
	"motoshare/internal/shared/database"
	"motoshare/internal/vehicles"
	"motoshare/internal/verification"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Motoshare database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_cancellations",
		"bookings",
		"verification_requests",
		"vehicles",
	}
	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	ownerA := uuid.New()
	ownerB := uuid.New()
	renter := uuid.New()

	fleet := []vehicles.Vehicle{
		{OwnerID: ownerA, Type: "CAR", Make: "Toyota", Model: "Corolla", PricePerDay: 4000, DepositAmount: 20000, Listed: true},
		{OwnerID: ownerA, Type: "CAR", Make: "Honda", Model: "Civic", PricePerDay: 4500, DepositAmount: 20000, Listed: true},
		{OwnerID: ownerB, Type: "MOTORBIKE", Make: "Yamaha", Model: "MT-07", PricePerDay: 2500, DepositAmount: 15000, Listed: true},
		{OwnerID: ownerB, Type: "BICYCLE", Make: "Trek", Model: "FX 3", PricePerDay: 800, DepositAmount: 0, Listed: true},
		{OwnerID: ownerB, Type: "CAR", Make: "Ford", Model: "Focus", PricePerDay: 3800, DepositAmount: 18000, Listed: false},
	}
	if err := s.db.PostgreSQL.Create(&fleet).Error; err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}
	fmt.Printf("  seeded %d vehicles\n", len(fleet))

	// Approved verification so the sample renter can book right away.
	reviewed := time.Now().UTC()
	request := verification.VerificationRequest{
		UserID:      renter,
		DocumentRef: "doc/seed-license-001",
		Status:      verification.StatusApproved,
		ReviewedBy:  &ownerA,
		ReviewedAt:  &reviewed,
	}
	if err := s.db.PostgreSQL.Create(&request).Error; err != nil {
		return fmt.Errorf("failed to seed verification: %w", err)
	}

	// One historical completed booking so reporting endpoints have data.
	pickup := time.Now().UTC().AddDate(0, 0, -10).Truncate(24 * time.Hour)
	returnDate := pickup.AddDate(0, 0, 2)
	breakdown := bookings.ComputePrice(fleet[0].PricePerDay, pickup, returnDate, 1000, 500, fleet[0].DepositAmount)

	confirmed := pickup.Add(-48 * time.Hour)
	completed := returnDate.Add(2 * time.Hour)
	booking := bookings.Booking{
		VehicleID:           fleet[0].ID,
		RenterID:            renter,
		OwnerID:             fleet[0].OwnerID,
		PickupDate:          pickup,
		ReturnDate:          returnDate,
		RentalDays:          breakdown.RentalDays,
		PricePerDaySnapshot: breakdown.PricePerDay,
		Subtotal:            breakdown.Subtotal,
		ServiceFeeAmount:    breakdown.ServiceFeeAmount,
		CommissionAmount:    breakdown.CommissionAmount,
		OwnerEarnings:       breakdown.OwnerEarnings,
		TotalPrice:          breakdown.TotalPrice,
		DepositAmount:       breakdown.DepositAmount,
		Status:              bookings.StatusCompleted,
		PaymentStatus:       bookings.PaymentPaid,
		ConfirmedAt:         &confirmed,
		CompletedAt:         &completed,
	}
	if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
		return fmt.Errorf("failed to seed booking: %w", err)
	}
	fmt.Println("  seeded 1 completed booking")

	fmt.Printf("\n  sample renter:  %s\n  sample owners: %s, %s\n", renter, ownerA, ownerB)
	return nil
}
