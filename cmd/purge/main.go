package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/service"
)

// Permanently removes recipes whose soft-delete grace period has elapsed.
func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	dryRun := flag.Bool("dry-run", false, "list purge candidates without deleting")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	recipeService := service.NewRecipeService(db)

	candidates, err := recipeService.PurgeCandidates(ctx)
	if err != nil {
		log.Fatalf("Failed to list purge candidates: %v", err)
	}
	if len(candidates) == 0 {
		fmt.Println("No recipes are eligible for purging.")
		return
	}

	fmt.Printf("%d recipe(s) eligible for purging:\n", len(candidates))
	for _, r := range candidates {
		fmt.Printf("  %s (deleted %s)\n", r.Slug, r.DeletedAt.Format("2006-01-02"))
	}

	if *dryRun {
		return
	}

	if !*yes {
		fmt.Printf("Are you sure you want to permanently delete %d recipe(s)? [y/N] ", len(candidates))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return
		}
	}

	purged, err := recipeService.Purge(ctx, candidates)
	if err != nil {
		log.Fatalf("Purge failed: %v", err)
	}
	fmt.Printf("Purged %d recipe(s).\n", purged)
}
