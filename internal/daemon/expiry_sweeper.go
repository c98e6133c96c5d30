package daemon

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/handlers"
)

type ExpirySweeper struct {
	MembershipCol *mongo.Collection
	Interval      time.Duration
}

// Start runs the expiry sweep on a fixed interval. The sweep is an
// idempotent bulk update, so overlapping with the admin sweep endpoint is
// safe, and readers re-check end dates anyway.
func (s *ExpirySweeper) Start() {
	go func() {
		for {
			count, err := handlers.SweepExpired(context.Background(), s.MembershipCol)
			if err != nil {
				log.Printf("expiry sweep failed: %v", err)
			} else if count > 0 {
				log.Printf("expiry sweep: %d membership(s) expired", count)
			}
			time.Sleep(s.Interval)
		}
	}()
}
