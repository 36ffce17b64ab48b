package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/corfutbolocanero/roster-service/config"
	"github.com/corfutbolocanero/roster-service/db"
	"github.com/corfutbolocanero/roster-service/repositories"
	"github.com/corfutbolocanero/roster-service/services"
	"github.com/corfutbolocanero/roster-service/storage"
)

// Sincroniza los logos históricos del bucket con las escuelas que aún no
// tienen uno asignado. Corre de principio a fin sin argumentos.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error cargando configuración: %v\n", err)
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error conectando a la base de datos: %v\n", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	uploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
		Endpoint:        cfg.StorageEndpoint,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		Region:          cfg.StorageRegion,
		BucketName:      cfg.LogosBucket,
		PublicBaseURL:   cfg.PublicBaseURL + "/" + cfg.LogosBucket,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error inicializando almacenamiento: %v\n", err)
		os.Exit(1)
	}

	schoolRepo := repositories.NewPostgresSchoolRepository(dbConn)
	syncService := services.NewLogoSyncService(schoolRepo, uploader)

	fmt.Println("=== Paso 1: estado actual ===")
	status, err := syncService.CheckStatus(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error consultando estado: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Escuelas: %d, con logo: %d, sin logo: %d\n",
		status.TotalSchools, status.SchoolsWithLogo, len(status.MissingLogo))
	for _, name := range status.MissingLogo {
		fmt.Printf("  - sin logo: %s\n", name)
	}

	fmt.Println("=== Paso 2: sincronización ===")
	results, err := syncService.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error sincronizando: %v\n", err)
		os.Exit(1)
	}

	var updated, skipped, failed int
	for _, r := range results {
		switch r.Outcome {
		case services.SyncOutcomeUpdated:
			updated++
			fmt.Printf("  ✔ %s -> %s\n", r.School, r.Detail)
		case services.SyncOutcomeSkipped:
			skipped++
			fmt.Printf("  - %s (%s)\n", r.School, r.Detail)
		case services.SyncOutcomeError:
			failed++
			fmt.Printf("  ✘ %s: %s\n", r.School, r.Detail)
		}
	}

	fmt.Println("=== Paso 3: resumen ===")
	fmt.Printf("Actualizadas: %d, omitidas: %d, con error: %d\n", updated, skipped, failed)

	final, err := syncService.CheckStatus(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error consultando estado final: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Escuelas: %d, con logo: %d, sin logo: %d\n",
		final.TotalSchools, final.SchoolsWithLogo, len(final.MissingLogo))
	for _, name := range final.MissingLogo {
		fmt.Printf("  - sigue sin logo: %s\n", name)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
