package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/locvowork/isms_status_exporter/internal/bootstrap"
	"github.com/locvowork/isms_status_exporter/internal/config"
	"github.com/locvowork/isms_status_exporter/internal/database"
	"github.com/locvowork/isms_status_exporter/internal/logger"
	"github.com/locvowork/isms_status_exporter/internal/service"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear, template")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated records")
	out := flag.String("out", "", "Template output path (template action; defaults to TEMPLATE_PATH)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt of the clear action")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 ISMS Record Seeder")
	fmt.Println(strings.Repeat("=", 50))

	sections, items := database.GetPresetConfig(database.SeedPreset(*preset))
	ids := database.ControlIdentifiers(sections, items)

	if *action == "template" {
		if err := config.LoadEnvConfig(); err != nil {
			log.Fatal(err)
		}
		path := *out
		if path == "" {
			path = config.DefaultEnvConfig.TEMPLATE_PATH
		}
		if err := writeTemplate(path, service.DefaultReportLayout(), ids); err != nil {
			log.Fatalf("❌ Writing template failed: %v", err)
		}
		fmt.Printf("✅ Template with %d controls written to %s\n", len(ids), path)
		return
	}

	// Initialize app
	fmt.Println("📡 Initializing application...")
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		log.Fatal(err)
	}
	defer app.Records.Close()

	seeder := database.NewDataSeeder(app.Records, *seed)

	// Execute action
	switch *action {
	case "seed":
		if s, ok := app.Records.(schemaCreator); ok {
			if err := s.EnsureSchema(ctx); err != nil {
				log.Fatalf("❌ Creating schema failed: %v", err)
			}
		}
		fmt.Printf("📊 Using preset %s: %d controls\n", *preset, len(ids))
		if err := seeder.SeedData(ctx, ids); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}

	case "clear":
		performClear(ctx, seeder, *yes)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\n✅ Done!")
}

type schemaCreator interface {
	EnsureSchema(ctx context.Context) error
}

func performClear(ctx context.Context, seeder *database.DataSeeder, skipPrompt bool) {
	if !skipPrompt {
		fmt.Println("⚠️  This will delete all policy and evidence records!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}

	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("❌ Clear failed: %v", err)
	}
}
