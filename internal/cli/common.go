package cli

import (
	"context"
	"fmt"

	"github.com/rshade/trajview/internal/logging"
	"github.com/rshade/trajview/internal/trajectory"
)

// parseCategories converts --category values to categories.
func parseCategories(values []string) ([]trajectory.Category, error) {
	categories := make([]trajectory.Category, 0, len(values))
	for _, v := range values {
		c, err := trajectory.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// loadPages reads the trajectories at paths and keeps the results in categories.
// Each file name (without extension) becomes the task id of its results.
func loadPages(ctx context.Context, paths []string, categoryFlags []string) ([]*trajectory.Page, error) {
	log := logging.FromContext(ctx)

	categories, err := parseCategories(categoryFlags)
	if err != nil {
		return nil, err
	}

	logs, err := trajectory.LoadAll(ctx, paths, trajectory.DefaultLoadConcurrency)
	if err != nil {
		return nil, err
	}

	pages := make([]*trajectory.Page, 0, len(logs))
	total := 0
	for _, l := range logs {
		page, pageErr := trajectory.NewPage(l, l.Name)
		if pageErr != nil {
			return nil, fmt.Errorf("extracting tool results from %s: %w", l.Name, pageErr)
		}
		page = page.Filter(categories...)
		total += len(page.Results)
		pages = append(pages, page)
	}

	log.Debug().
		Int("files", len(paths)).
		Int("results", total).
		Int("categories", len(categories)).
		Msg("trajectories loaded")

	return pages, nil
}
