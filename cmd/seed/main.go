package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"gym-membership-platform/internal/config"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
	pg "gym-membership-platform/internal/infra/db/postgres"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := pg.MustConnectPostgres(cfg.Database.URL)
	defer pool.Close()

	planRepo := pg.NewPostgresPlanRepo(pool)

	// If plans already exist, do nothing
	plans, err := planRepo.ListActive(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%d INR)\n", p.Title, p.DurationDays, p.Price)
		}
		return
	}

	// Seed the standard plan catalog. Day-pass is priced per day.
	seed := []struct {
		ID       string
		Title    string
		Days     int
		Price    int64
		Features []string
	}{
		{"plan-day-pass", model.DayPassTitle, 1, 99, []string{"Full gym access for a day"}},
		{"plan-monthly", "monthly", 30, 1500, []string{"Full gym access", "Locker"}},
		{"plan-quarterly", "quarterly", 90, 4000, []string{"Full gym access", "Locker", "One trainer session"}},
		{"plan-yearly", "yearly", 365, 14000, []string{"Full gym access", "Locker", "Monthly trainer session"}},
	}

	for _, s := range seed {
		p, err := model.NewPlan(s.ID, s.Title, s.Days, s.Price)
		if err != nil {
			log.Fatalf("build plan %q: %v", s.Title, err)
		}
		p.Features = s.Features
		if err := planRepo.Save(ctx, repository.NoTX, p); err != nil {
			log.Fatalf("save plan %q: %v", s.Title, err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d, price=%d INR)\n", p.Title, p.ID, p.DurationDays, p.Price)
	}

	fmt.Println("Seeding complete.")
}
