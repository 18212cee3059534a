// Command catalog-ingest imports catalog shards (JSON arrays, optionally
// gzip-compressed) into the local store. Shards are parsed concurrently;
// duplicate IDs across shards keep the first occurrence. Entries failing
// boundary validation (empty ID or name, negative price) are skipped and
// counted.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/localstore"
)

func main() {
	var storePath string

	flag.StringVar(&storePath, "store-path", "kiosk.db", "path to the local store file (or KIOSK_STORE_PATH env)")
	flag.Parse()

	if v := os.Getenv("KIOSK_STORE_PATH"); v != "" && storePath == "kiosk.db" {
		storePath = v
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more catalog .json or .json.gz shards")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, storePath, files); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, storePath string, files []string) error {
	perFile := make([][]catalog.Item, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			items, skipped, err := parseFile(ctx, path)
			if err != nil {
				return errors.Wrapf(err, "parse %s", path)
			}
			slog.Info("parsed shard",
				slog.String("path", path),
				slog.Int("items", len(items)),
				slog.Int("skipped", skipped),
			)
			perFile[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Merge shards in argument order, first occurrence of an ID wins.
	seen := make(map[string]struct{})
	var merged []catalog.Item
	for _, items := range perFile {
		for _, item := range items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}

	store, err := localstore.Open(storePath)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	slog.Info("upserting catalog items", slog.Int("count", len(merged)))
	if err := store.UpsertItems(ctx, merged); err != nil {
		return errors.Wrap(err, "upsert items")
	}
	return nil
}

// parseFile streams one shard, returning the valid items and the number
// of skipped entries.
func parseFile(ctx context.Context, path string) ([]catalog.Item, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, 0, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var (
		items   []catalog.Item
		skipped int
	)

	d := jx.Decode(r, 1<<16)
	err = d.Arr(func(d *jx.Decoder) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, err := decodeItem(d)
		if err != nil {
			return err
		}
		if item.ID == "" || item.Name == "" || item.Price.IsNegative() {
			skipped++
			return nil
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "decode catalog array")
	}
	return items, skipped, nil
}

func decodeItem(d *jx.Decoder) (catalog.Item, error) {
	var item catalog.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			item.ID, err = d.Str()
		case "name":
			item.Name, err = d.Str()
		case "price":
			var n jx.Num
			if n, err = d.Num(); err == nil {
				item.Price, err = decimal.NewFromString(n.String())
			}
		case "imageURI":
			item.ImageURI, err = d.Str()
		case "description":
			item.Description, err = d.Str()
		case "category":
			item.Category, err = d.Str()
		case "brand":
			item.Brand, err = d.Str()
		case "stock":
			item.Stock, err = d.Int()
		case "isAvailable":
			item.Available, err = d.Bool()
		case "isFeatured":
			item.Featured, err = d.Bool()
		case "isNew":
			var isNew bool
			if isNew, err = d.Bool(); err == nil {
				item.New = isNew
			}
		case "itemType":
			var diet string
			if diet, err = d.Str(); err == nil {
				item.Diet = catalog.Diet(diet)
			}
		default:
			return d.Skip()
		}
		return err
	})
	return item, err
}
