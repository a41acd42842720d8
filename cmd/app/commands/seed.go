package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// CatalogSeeder inserts the sample catalog and reports how many items it wrote.
type CatalogSeeder interface {
	Seed(ctx context.Context) (int, error)
}

// RunSeedCatalog populates an empty catalog with the sample items. A populated catalog
// is left untouched and reported as zero inserted items.
//
// Requirements: Database must be migrated and accessible.
func RunSeedCatalog(
	ctx context.Context,
	seeder CatalogSeeder,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("seeding catalog")

	inserted, err := seeder.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if format == "json" {
		if err := outputSeedJSON(writer, inserted); err != nil {
			return err
		}
	} else {
		outputSeedText(writer, inserted)
	}

	logger.Info("seed completed", slog.Int("inserted", inserted))
	return nil
}

func outputSeedText(writer io.Writer, inserted int) {
	if inserted == 0 {
		_, _ = fmt.Fprintln(writer, "Catalog already populated, nothing inserted")
		return
	}
	_, _ = fmt.Fprintf(writer, "Successfully inserted %d catalog item(s)\n", inserted)
}

func outputSeedJSON(writer io.Writer, inserted int) error {
	result := map[string]any{
		"inserted": inserted,
		"skipped":  inserted == 0,
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, _ = fmt.Fprintln(writer, string(out))
	return nil
}
