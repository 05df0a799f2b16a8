package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synabon/synabon/internal/bucket"
	"github.com/synabon/synabon/internal/generator"
	"github.com/synabon/synabon/internal/metrics"
	"github.com/synabon/synabon/internal/models"
	"github.com/synabon/synabon/internal/storage/sqlite"
	"github.com/synabon/synabon/pkg/logging"
)

const dateLayout = "2006-01-02"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()
	metrics.Init()

	// Optional scrape endpoint for long-running generations.
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				slog.Warn("metrics listener stopped", "error", err)
			}
		}()
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "append":
		err = runAppend(os.Args[2:])
	case "bucket":
		err = runBucket(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: synabon <command> [flags]

commands:
  generate   synthesize a fresh user-activity dataset
  append     extend a saved dataset forward in time
  bucket     assign deterministic experiment buckets to a dataset`)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	users := fs.Int("users", 100, "number of synthetic users")
	start := fs.String("start", "", "interval start (YYYY-MM-DD or RFC3339, default: 30 days ago)")
	days := fs.Int("days", 30, "interval length in days")
	countries := fs.String("countries", "", "comma-separated country pool")
	nCountries := fs.Int("n-countries", 0, "number of countries to fabricate (exclusive with -countries)")
	weights := fs.String("weights", "", "comma-separated probability per country, must sum to 1")
	seed := fs.Uint64("seed", 0, "random seed (0 = non-deterministic)")
	out := fs.String("out", "-", "CSV output path, - for stdout")
	dbPath := fs.String("db", getEnv("DB_PATH", "./data/synabon.db"), "SQLite database path")
	name := fs.String("name", "", "save the dataset under this name in the database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	startDt, err := parseStart(*start, *days)
	if err != nil {
		return err
	}
	endDt := startDt.AddDate(0, 0, *days)

	cfg := generator.Config{
		Countries:    splitList(*countries),
		NumCountries: *nCountries,
	}
	if *weights != "" {
		if cfg.CountryWeights, err = parseFloats(*weights); err != nil {
			return fmt.Errorf("bad -weights: %w", err)
		}
	}

	gen, err := generator.New(cfg, seedOptions(*seed)...)
	if err != nil {
		return err
	}

	started := time.Now()
	dataset, err := gen.Generate(*users, startDt, endDt)
	if err != nil {
		return err
	}
	slog.Info("dataset generated",
		"users", *users, "records", len(dataset),
		"start", startDt.Format(dateLayout), "end", endDt.Format(dateLayout),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if err := writeCSV(*out, dataset, nil); err != nil {
		return err
	}
	if *name != "" {
		return saveDataset(*dbPath, *name, dataset)
	}
	return nil
}

func runAppend(args []string) error {
	fs := flag.NewFlagSet("append", flag.ExitOnError)
	in := fs.String("in", "", "CSV dataset to extend (exclusive with -name)")
	name := fs.String("name", "", "saved dataset to extend")
	days := fs.Int("days", 30, "how far forward to extend, in days")
	seed := fs.Uint64("seed", 0, "random seed (0 = non-deterministic)")
	out := fs.String("out", "-", "CSV output path, - for stdout")
	dbPath := fs.String("db", getEnv("DB_PATH", "./data/synabon.db"), "SQLite database path")
	saveAs := fs.String("save-as", "", "save the extended dataset under this name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dataset, err := loadDataset(*in, *dbPath, *name)
	if err != nil {
		return err
	}

	gen, err := generator.New(generator.Config{}, seedOptions(*seed)...)
	if err != nil {
		return err
	}

	extended, err := gen.Append(dataset, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}
	slog.Info("dataset extended",
		"existing_records", len(dataset), "total_records", len(extended), "days", *days)

	if err := writeCSV(*out, extended, nil); err != nil {
		return err
	}
	if *saveAs != "" {
		return saveDataset(*dbPath, *saveAs, extended)
	}
	return nil
}

func runBucket(args []string) error {
	fs := flag.NewFlagSet("bucket", flag.ExitOnError)
	in := fs.String("in", "", "CSV dataset to bucket (exclusive with -name)")
	name := fs.String("name", "", "saved dataset to bucket")
	buckets := fs.String("buckets", "100", "comma-separated bucket counts, one group column each")
	salt := fs.String("salt", "", "bucket salt (empty = fresh random salt)")
	out := fs.String("out", "-", "CSV output path, - for stdout")
	dbPath := fs.String("db", getEnv("DB_PATH", "./data/synabon.db"), "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dataset, err := loadDataset(*in, *dbPath, *name)
	if err != nil {
		return err
	}

	counts, err := parseInts(*buckets)
	if err != nil {
		return fmt.Errorf("bad -buckets: %w", err)
	}

	assignment, err := bucket.AssignDataset(dataset, counts, *salt)
	if err != nil {
		return err
	}
	slog.Info("buckets assigned",
		"records", len(dataset), "buckets", counts, "salt", assignment.Salt)

	return writeCSV(*out, dataset, assignment)
}

func seedOptions(seed uint64) []generator.Option {
	if seed == 0 {
		return nil
	}
	return []generator.Option{generator.WithSeed(seed)}
}

func parseStart(s string, days int) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad -start %q: want YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func loadDataset(csvPath, dbPath, name string) (models.Dataset, error) {
	switch {
	case csvPath != "" && name != "":
		return nil, fmt.Errorf("-in and -name are mutually exclusive")
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()
		return models.ReadCSV(f)
	case name != "":
		store, err := sqlite.New(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadDataset(context.Background(), name)
	default:
		return nil, fmt.Errorf("either -in or -name is required")
	}
}

func saveDataset(dbPath, name string, d models.Dataset) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveDataset(context.Background(), name, d); err != nil {
		return err
	}
	slog.Info("dataset saved", "name", name, "records", len(d), "database", dbPath)
	return nil
}

// writeCSV writes the dataset, with the assignment's group columns appended
// when present.
func writeCSV(path string, d models.Dataset, a *bucket.Assignment) error {
	w := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if a == nil {
		return models.WriteCSV(w, d)
	}
	return writeBucketedCSV(w, d, a)
}
