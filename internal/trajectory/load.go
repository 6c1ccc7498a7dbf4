package trajectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultLoadConcurrency bounds parallel file reads in LoadAll.
const DefaultLoadConcurrency = 4

// Load reads a trajectory log from path.
func Load(path string) (*Log, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trajectory %s: %w", path, err)
	}
	defer f.Close()

	log, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading trajectory %s: %w", path, err)
	}
	log.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return log, nil
}

// Decode parses a trajectory log from r.
func Decode(r io.Reader) (*Log, error) {
	var log Log
	if err := json.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("decoding trajectory JSON: %w", err)
	}
	if len(log.Messages) == 0 {
		return nil, ErrNoMessages
	}
	return &log, nil
}

// LoadAll reads every path concurrently, keeping input order.
// It stops at the first error. A non-positive limit uses DefaultLoadConcurrency.
func LoadAll(ctx context.Context, paths []string, limit int) ([]*Log, error) {
	if limit <= 0 {
		limit = DefaultLoadConcurrency
	}

	logs := make([]*Log, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log, err := Load(path)
			if err != nil {
				return err
			}
			logs[i] = log
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logs, nil
}
