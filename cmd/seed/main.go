package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/config"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/model"
	pg "github.com/DucAnhIT03/Nhom4-sub001/internal/infra/db/postgres"
)

// Seeds the plan catalog for a fresh deployment. Does nothing when plans
// already exist.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)

	plans, err := planRepo.List(ctx, nil)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%d VND)\n", p.Name, p.DurationDays, p.Price)
		}
		return
	}

	seed := []struct {
		ID    string
		Name  string
		Days  int
		Price int64
	}{
		{"plan-basic", "Basic", 30, 99_000},
		{"plan-premium", "Premium", 30, 199_000},
		{"plan-premium-year", "Premium Annual", 365, 1_990_000},
	}

	for _, s := range seed {
		p, err := model.NewPlan(s.ID, s.Name, s.Price, s.Days)
		if err != nil {
			log.Fatalf("plan %q: %v", s.Name, err)
		}
		if err := planRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d, price=%d VND)\n", p.Name, p.ID, p.DurationDays, p.Price)
	}

	fmt.Println("Seeding complete.")
}
