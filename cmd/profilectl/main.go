// Command profilectl is the Profile Hub front end: it lists, filters,
// saves, and deletes profiles through a local offline cache, and replays
// queued changes once the API is reachable again.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/cache"
	"github.com/janisto/profilehub/internal/client/kv"
	"github.com/janisto/profilehub/internal/client/state"
	syncpkg "github.com/janisto/profilehub/internal/client/sync"
	"github.com/janisto/profilehub/internal/client/view"
	"github.com/janisto/profilehub/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `Usage: profilectl <command> [flags]

Commands:
  list         List profiles with optional filters and paging
  get          Show one profile by email
  save         Create or update a profile
  delete       Delete a profile by email
  sync         Replay locally queued changes against the API
  clear-cache  Drop the local profile cache
  status       Show API reachability and pending changes

Run 'profilectl <command> -h' for command flags.
`

// app bundles the wiring every subcommand needs.
type app struct {
	store       *state.Store
	cache       *cache.Cache
	client      *api.Client
	coordinator *syncpkg.Coordinator
	log         *zap.Logger
}

// newLogger builds a console logger on stderr so diagnostics never mix with
// rendered output on stdout. Warnings and up by default; PROFILEHUB_DEBUG
// enables the rest.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if os.Getenv("PROFILEHUB_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	store, err := kv.NewFile(cfg.CacheDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cache:", err)
		os.Exit(1)
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()
	client := api.NewClient(nil, api.WithBaseURL(cfg.APIBaseURL))
	profileCache := cache.New(client, store, cache.WithLogger(log))
	a := &app{
		store:       state.NewStore(profileCache),
		cache:       profileCache,
		client:      client,
		coordinator: syncpkg.New(client, profileCache, syncpkg.WithLogger(log)),
		log:         log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "list":
		runErr = a.list(ctx, os.Args[2:])
	case "get":
		runErr = a.get(ctx, os.Args[2:])
	case "save":
		runErr = a.save(ctx, os.Args[2:])
	case "delete":
		runErr = a.delete(ctx, os.Args[2:])
	case "sync":
		runErr = a.sync(ctx, os.Args[2:])
	case "clear-cache":
		runErr = a.clearCache(ctx)
	case "status":
		runErr = a.status(ctx)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "match against name or email")
	ageMin := fs.Int("age-min", 0, "minimum age")
	ageMax := fs.Int("age-max", 0, "maximum age")
	createdFrom := fs.String("created-from", "", "only profiles created on or after this date (YYYY-MM-DD)")
	createdTo := fs.String("created-to", "", "only profiles created on or before this date (YYYY-MM-DD)")
	sortBy := fs.String("sort", string(view.SortCreatedAt), "sort field: name, email, age, createdAt")
	asc := fs.Bool("asc", false, "sort ascending instead of descending")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", view.DefaultPageSize, "profiles per page (5, 10, 25, 50)")
	mode := fs.String("view", string(view.ModeTable), "layout: table or grid")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !view.ValidSortField(*sortBy) {
		return fmt.Errorf("invalid sort field %q", *sortBy)
	}
	if !view.ValidMode(*mode) {
		return fmt.Errorf("invalid view %q", *mode)
	}
	if !view.ValidPageSize(*pageSize) {
		return fmt.Errorf("invalid page size %d, choose one of %v", *pageSize, view.PageSizeOptions)
	}

	query := view.Query{
		Search:    *search,
		AgeMin:    *ageMin,
		AgeMax:    *ageMax,
		SortBy:    view.SortField(*sortBy),
		Ascending: *asc,
		Page:      *page - 1,
		PageSize:  *pageSize,
	}
	var err error
	if query.CreatedFrom, err = parseDate(*createdFrom); err != nil {
		return err
	}
	if query.CreatedTo, err = parseDate(*createdTo); err != nil {
		return err
	}
	if !query.CreatedTo.IsZero() {
		query.CreatedTo = query.CreatedTo.Add(24*time.Hour - time.Nanosecond)
	}

	if err := a.store.FetchAllProfiles(ctx); err != nil {
		return err
	}
	s := a.store.State()
	if s.Success != "" {
		fmt.Println(s.Success)
	}
	return view.Render(os.Stdout, view.Apply(s.Profiles, query), view.Mode(*mode))
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	email := fs.Arg(0)
	if email == "" {
		return fmt.Errorf("usage: profilectl get <email>")
	}

	if err := a.store.FetchProfile(ctx, email); err != nil {
		return fmt.Errorf("%s", a.store.State().Error)
	}
	s := a.store.State()
	if s.Profile == nil {
		return fmt.Errorf("Profile not found")
	}
	return view.RenderDetail(os.Stdout, *s.Profile)
}

func (a *app) save(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	name := fs.String("name", "", "full name (first and last)")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.store.SaveProfile(ctx, api.SaveRequest{Name: *name, Email: *email, Age: *age})
	s := a.store.State()
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			for _, fe := range apiErr.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return fmt.Errorf("%s", s.Error)
	}
	fmt.Println(s.Success)
	return view.RenderDetail(os.Stdout, *s.Profile)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	email := fs.Arg(0)
	if email == "" {
		return fmt.Errorf("usage: profilectl delete <email>")
	}

	if err := a.store.DeleteProfile(ctx, email); err != nil {
		return fmt.Errorf("%s", a.store.State().Error)
	}
	fmt.Println(a.store.State().Success)
	return nil
}

func (a *app) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	watch := fs.Bool("watch", false, "keep running and sync whenever the API is reachable")
	interval := fs.Duration("interval", syncpkg.DefaultInterval, "connectivity check interval in watch mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *watch {
		coordinator := syncpkg.New(a.client, a.cache,
			syncpkg.WithLogger(a.log), syncpkg.WithInterval(*interval))
		fmt.Println("Watching for connectivity, press Ctrl+C to stop")
		coordinator.Run(context.Background())
		return nil
	}

	result, err := a.coordinator.SyncLocalChanges(ctx)
	if err != nil {
		return err
	}
	switch {
	case result.Synced == 0 && result.Failed == 0:
		fmt.Println("No local changes to sync")
	case result.Failed > 0:
		fmt.Printf("Synced %d profile(s), %d failed and remain queued\n", result.Synced, result.Failed)
	default:
		fmt.Printf("Synced %d profile(s)\n", result.Synced)
	}
	return nil
}

func (a *app) clearCache(ctx context.Context) error {
	if err := a.cache.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Profile cache cleared")
	return nil
}

func (a *app) status(ctx context.Context) error {
	pending := a.cache.Pending(ctx)
	if err := a.client.Ping(ctx); err != nil {
		fmt.Println("API: unreachable")
	} else {
		fmt.Println("API: reachable")
	}
	fmt.Printf("Pending changes: %d\n", len(pending))
	for _, p := range pending {
		fmt.Printf("  %s <%s>\n", p.Name, p.Email)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
