package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/medscribe/clinic-backend/internal/adapters/database"
	"github.com/medscribe/clinic-backend/internal/adapters/search"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/typesense"
	"github.com/medscribe/clinic-backend/pkg/config"
)

const indexPageSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	catalogRepo := database.NewTermCatalogAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting terms collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.TermsCollection).Delete(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	indexRepo := search.NewTermIndexAdapter(tsClient)

	indexed := 0
	for offset := 0; ; offset += indexPageSize {
		terms, err := catalogRepo.ListAll(ctx, indexPageSize, offset)
		if err != nil {
			return err
		}
		if len(terms) == 0 {
			break
		}

		for _, term := range terms {
			if err := indexRepo.Index(ctx, term); err != nil {
				log.Printf("Warning: failed to index term %s: %v", term.ID, err)
				continue
			}
			indexed++
		}

		if len(terms) < indexPageSize {
			break
		}
	}

	log.Printf("Indexed %d terms", indexed)
	return nil
}
