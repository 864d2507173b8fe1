package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/terpmatch/terpmatch/config"
	"github.com/terpmatch/terpmatch/llm"
	"github.com/terpmatch/terpmatch/log"
	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/recommend"
	"github.com/terpmatch/terpmatch/scan"
	"github.com/terpmatch/terpmatch/store"
	"github.com/terpmatch/terpmatch/store/memory"
	"github.com/terpmatch/terpmatch/store/postgres"
	"github.com/terpmatch/terpmatch/store/redis"
	"github.com/terpmatch/terpmatch/store/sqlite"
	"github.com/terpmatch/terpmatch/tiler"
)

const usage = `Usage: terpmatch [--config=config.yaml] <command> [args]

Commands:
  scan <menu.jpg|menu.html>   scan a dispensary menu and rank its strains
  like <strain>               mark a strain as liked
  dislike <strain>            mark a strain as disliked
  clear <strain>              forget a like or dislike
  similar <strain>            list strains with similar terpene profiles
  search [flags]              search the strain database
  terpene <name>              show terpene reference information
`

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to YAML config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fatal("load config: %v", err)
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strains, prefs, closer, err := openStores(ctx, cfg)
	if err != nil {
		fatal("open store: %v", err)
	}
	defer closer()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "scan":
		err = runScan(ctx, cfg, logger, strains, prefs, rest)
	case "like":
		err = runPreference(ctx, prefs.Like, rest)
	case "dislike":
		err = runPreference(ctx, prefs.Dislike, rest)
	case "clear":
		err = runPreference(ctx, prefs.Clear, rest)
	case "similar":
		err = runSimilar(ctx, strains, rest)
	case "search":
		err = runSearch(ctx, strains, rest)
	case "terpene":
		err = runTerpene(rest)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "terpmatch: "+format+"\n", v...)
	os.Exit(1)
}

// openStores builds the configured backend. All backends implement both
// store interfaces except memory, which uses two values.
func openStores(ctx context.Context, cfg *config.AppConfig) (store.StrainStore, store.PreferenceStore, func(), error) {
	switch cfg.Store.Type {
	case "memory":
		strains, err := memory.NewSeededStrainStore()
		if err != nil {
			return nil, nil, nil, err
		}
		prefs := memory.NewPreferenceStore()
		return strains, prefs, func() {}, nil

	case "sqlite":
		if cfg.Store.SQLite == nil {
			return nil, nil, nil, fmt.Errorf("sqlite store config missing")
		}
		s, err := sqlite.New(sqlite.Options{Path: cfg.Store.SQLite.Path, Seed: true})
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, func() { s.Close() }, nil

	case "redis":
		if cfg.Store.Redis == nil {
			return nil, nil, nil, fmt.Errorf("redis store config missing")
		}
		s := redis.New(redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})
		return s, s, func() { s.Close() }, nil

	case "postgres":
		if cfg.Store.Postgres == nil {
			return nil, nil, nil, fmt.Errorf("postgres store config missing")
		}
		s, err := postgres.New(ctx, postgres.Options{ConnString: cfg.Store.Postgres.ConnString})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, nil, nil, err
		}
		return s, s, func() { s.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}

func runScan(ctx context.Context, cfg *config.AppConfig, logger log.Logger, strains store.StrainStore, prefs store.PreferenceStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: terpmatch scan <menu.jpg|menu.html>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	key, err := cfg.APIKey()
	if err != nil {
		return err
	}
	provider, err := llm.New(ctx, llm.Config{
		Kind:    llm.Kind(cfg.Provider.Kind),
		Model:   cfg.Provider.Model,
		APIKey:  key,
		BaseURL: cfg.Provider.BaseURL,
	})
	if err != nil {
		return err
	}

	opts := []scan.Option{scan.WithLogger(logger)}
	if cfg.Tiler.MaxChunkHeight > 0 {
		opts = append(opts, scan.WithTiler(tiler.New(
			tiler.WithMaxChunkHeight(cfg.Tiler.MaxChunkHeight),
			tiler.WithOverlap(cfg.Tiler.Overlap),
			tiler.WithChunkThreshold(cfg.Tiler.ChunkThreshold),
		)))
	}
	scanner := scan.New(provider, strains, prefs, opts...)

	var statuses <-chan model.ParseStatus
	if isHTML(args[0], data) {
		statuses = scanner.ScanHTML(ctx, string(data))
	} else {
		statuses = scanner.ScanImage(ctx, data)
	}

	for status := range statuses {
		renderStatus(status)
	}
	return nil
}

func isHTML(path string, data []byte) bool {
	if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") {
		return true
	}
	head := strings.ToLower(string(data[:min(len(data), 256)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype")
}

func runPreference(ctx context.Context, op func(context.Context, string) error, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one strain name")
	}
	if err := op(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("done"))
	return nil
}

func runSimilar(ctx context.Context, strains store.StrainStore, args []string) error {
	fs := flag.NewFlagSet("similar", flag.ContinueOnError)
	limit := fs.Int("limit", 5, "number of matches to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: terpmatch similar [--limit=N] <strain>")
	}

	results, err := recommend.SimilarStrains(ctx, strains, fs.Arg(0), *limit)
	if err != nil {
		return err
	}
	renderResults(results)
	return nil
}

func runSearch(ctx context.Context, strains store.StrainStore, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	strainType := fs.String("type", "", "indica, sativa or hybrid")
	thcMin := fs.Float64("thc-min", 0, "minimum THC percentage")
	thcMax := fs.Float64("thc-max", 0, "maximum THC percentage")
	cbdMin := fs.Float64("cbd-min", 0, "minimum CBD percentage")
	effects := fs.String("effects", "", "comma-separated effects, any may match")
	limit := fs.Int("limit", 0, "maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := recommend.SearchFilter{
		THCMin: *thcMin,
		THCMax: *thcMax,
		CBDMin: *cbdMin,
		Limit:  *limit,
	}
	if *strainType != "" {
		filter.Type = model.ParseStrainType(*strainType)
	}
	if *effects != "" {
		filter.Effects = strings.Split(*effects, ",")
	}

	results, err := recommend.Search(ctx, strains, filter)
	if err != nil {
		return err
	}
	for _, s := range results {
		fmt.Println(renderStrain(s))
	}
	if len(results) == 0 {
		fmt.Println(dimStyle.Render("no strains matched"))
	}
	return nil
}

func runTerpene(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: terpmatch terpene <name>")
	}
	info, ok := recommend.TerpeneByName(args[0])
	if !ok {
		return fmt.Errorf("unknown terpene %q", args[0])
	}
	renderTerpene(info)
	return nil
}
