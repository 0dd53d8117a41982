package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamskills/internal/database"
)

// Seeder is one idempotent bootstrap step; each must be safe to run on
// every startup.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Printf("seed applied | name=%s took=%s", s.Name(), time.Since(start))
	}
	return nil
}
