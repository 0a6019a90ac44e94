package main

import (
	"context"
	"log"
	"os"

	"github.com/medscribe/clinic-backend/internal/adapters/database"
	"github.com/medscribe/clinic-backend/internal/adapters/search"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/typesense"
	"github.com/medscribe/clinic-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	var indexRepo *search.TermIndexAdapter
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err == nil {
		if err := tsClient.InitSchema(ctx); err != nil {
			log.Printf("Warning: failed to init Typesense schema: %v", err)
		}
		indexRepo = search.NewTermIndexAdapter(tsClient)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				term_usage,
				doctor_dose_overrides,
				cross_references,
				dose_references,
				terms
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	catalogRepo := database.NewTermCatalogAdapter(pgClient)

	terms := []*entities.Term{
		{Name: "Paracetamol 650", Category: entities.CategoryMedicine, Composition: "Paracetamol", Strength: "650mg", DosageForm: "tablet"},
		{Name: "Paracetamol 500", Category: entities.CategoryMedicine, Composition: "Paracetamol", Strength: "500mg", DosageForm: "tablet"},
		{Name: "Amoxicillin 500", Category: entities.CategoryMedicine, Composition: "Amoxicillin", Strength: "500mg", DosageForm: "capsule"},
		{Name: "Azithromycin 500", Category: entities.CategoryMedicine, Composition: "Azithromycin", Strength: "500mg", DosageForm: "tablet"},
		{Name: "Cetirizine 10", Category: entities.CategoryMedicine, Composition: "Cetirizine", Strength: "10mg", DosageForm: "tablet"},
		{Name: "Viral Fever", Category: entities.CategoryDiagnosis},
		{Name: "Acute Pharyngitis", Category: entities.CategoryDiagnosis},
		{Name: "Allergic Rhinitis", Category: entities.CategoryDiagnosis},
		{Name: "Fever", Category: entities.CategorySymptom},
		{Name: "Sore Throat", Category: entities.CategorySymptom},
		{Name: "Runny Nose", Category: entities.CategorySymptom},
	}

	for _, term := range terms {
		if err := catalogRepo.Create(ctx, term); err != nil {
			log.Fatalf("Failed to seed term %q: %v", term.Name, err)
		}
		if indexRepo != nil {
			if err := indexRepo.Index(ctx, term); err != nil {
				log.Printf("Warning: failed to index term %q: %v", term.Name, err)
			}
		}
	}
	log.Printf("Seeded %d terms", len(terms))

	doseRefs := [][]interface{}{
		{"Paracetamol 650", "Paracetamol", "650mg", "1-0-1", "5 days", "oral", "3g", "after food", "tablet", "650mg"},
		{"Paracetamol 500", "Paracetamol", "500mg", "1-1-1", "3 days", "oral", "3g", "after food", "tablet", "500mg"},
		{"Amoxicillin 500", "Amoxicillin", "500mg", "1-1-1", "7 days", "oral", "3g", "complete the course", "capsule", "500mg"},
		{"Azithromycin 500", "Azithromycin", "500mg", "OD", "3 days", "oral", "500mg", "before food", "tablet", "500mg"},
		{"Cetirizine 10", "Cetirizine", "10mg", "HS", "5 days", "oral", "10mg", "may cause drowsiness", "tablet", "10mg"},
	}
	for _, ref := range doseRefs {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO dose_references
				(id, medication_name, active_ingredient, standard_dosage,
				 recommended_frequency, recommended_duration, route_of_administration,
				 max_daily_dose, special_instructions, dosage_form, strength)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT DO NOTHING
		`, ref...)
		if err != nil {
			log.Fatalf("Failed to seed dose reference %v: %v", ref[0], err)
		}
	}
	log.Printf("Seeded %d dose references", len(doseRefs))

	crossRefs := [][]interface{}{
		{"fever", "Viral Fever", string(entities.CandidateDiagnosis), "", 5},
		{"fever", "Acute Pharyngitis", string(entities.CandidateDiagnosis), "", 2},
		{"sore throat", "Acute Pharyngitis", string(entities.CandidateDiagnosis), "", 5},
		{"runny nose", "Allergic Rhinitis", string(entities.CandidateDiagnosis), "", 5},
		{"viral fever", "Paracetamol 650", string(entities.CandidateMedication), "1-0-1", 5},
		{"acute pharyngitis", "Azithromycin 500", string(entities.CandidateMedication), "OD", 4},
		{"allergic rhinitis", "Cetirizine 10", string(entities.CandidateMedication), "HS", 5},
	}
	for _, cr := range crossRefs {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO cross_references
				(id, source_term, candidate_term, candidate_kind,
				 default_frequency, priority, usage_count)
			VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4, ''), $5, 0)
			ON CONFLICT DO NOTHING
		`, cr...)
		if err != nil {
			log.Fatalf("Failed to seed cross reference %v -> %v: %v", cr[0], cr[1], err)
		}
	}
	log.Printf("Seeded %d cross references", len(crossRefs))

	log.Println("Seeding complete")
}
