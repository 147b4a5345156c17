// Re-enqueues parked notification jobs from the dead letter queue.
// Usage: go run ./cmd/dlqretry [-max N]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Rhzslya/sinari-server-sub000/internal/infra"
	"github.com/Rhzslya/sinari-server-sub000/internal/worker"
)

func main() {
	max := flag.Int("max", 100, "maximum number of jobs to replay")
	flag.Parse()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	rdb, err := infra.NewRedis(redisURL)
	if err != nil {
		log.Fatalf("redis connect error: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	replayed, err := worker.ReplayDLQ(ctx, rdb, worker.QueueNotification, *max)
	if err != nil {
		log.Fatalf("replay error: %v", err)
	}

	remaining, err := worker.DLQLength(ctx, rdb, worker.QueueNotification)
	if err != nil {
		log.Fatalf("dlq length error: %v", err)
	}
	fmt.Printf("replayed %d job(s), %d left in the dead letter queue\n", replayed, remaining)
}
