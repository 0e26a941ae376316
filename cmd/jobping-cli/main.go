package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jobping-client-go/internal/api"
	"jobping-client-go/internal/app"
	"jobping-client-go/internal/config"
	"jobping-client-go/internal/render"
	"jobping-client-go/internal/session"
	"jobping-client-go/pkg/httpclient"
)

func main() {
	var (
		configFile = flag.String("config", "config.json", "Configuration file path")
		command    = flag.String("cmd", "jobs", "Command to run: login, register, logout, status, jobs, scan, fetch, prefs, pref-add, pref-set, pref-rm")
		username   = flag.String("username", "", "Username for login/register")
		password   = flag.String("password", "", "Password for login/register")
		limit      = flag.Int("limit", 0, "Max jobs to list (0 = configured default)")
		search     = flag.String("search", "", "Search term for fetch (default: software engineer)")
		location   = flag.String("location", "", "Location for fetch (default: San Francisco, CA)")
		results    = flag.Int("results", 0, "Results wanted for fetch (default: 5)")
		key        = flag.String("key", "", "Preference key")
		value      = flag.String("value", "", "Preference value")
		id         = flag.String("id", "", "Preference ID")
		output     = flag.String("output", "console", "Output format: console, json")
		verbose    = flag.Bool("verbose", false, "Verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Configuration validation failed: %v", err)
	}

	logger := newLogger(cfg, *verbose)

	tokenPath, err := cfg.TokenFile()
	if err != nil {
		fatalf("Failed to resolve token file: %v", err)
	}

	store := session.NewStore(tokenPath, logger)
	client := api.NewClient(cfg.API.BaseURL, httpclient.NewHttpClient(cfg.API.RequestTimeout), store)

	jobLimit := cfg.Reconcile.JobLimit
	if *limit > 0 {
		jobLimit = *limit
	}
	coordinator := app.NewCoordinator(client, store, cfg.Reconcile.ReloadDelay, jobLimit, logger)

	ctx := context.Background()

	switch *command {
	case "login":
		runLogin(ctx, client, *username, *password, false)
	case "register":
		runLogin(ctx, client, *username, *password, true)
	case "logout":
		client.Logout()
		fmt.Println("Logged out.")
	case "status":
		runStatus(store, cfg)
	case "jobs":
		runJobs(ctx, coordinator, *output)
	case "scan":
		runScan(ctx, coordinator, *output)
	case "fetch":
		runFetch(ctx, coordinator, api.FetchParams{
			SearchTerm:    *search,
			Location:      *location,
			ResultsWanted: *results,
		}, *output)
	case "prefs":
		runPrefs(ctx, coordinator, *output)
	case "pref-add":
		runPrefAdd(ctx, coordinator, *key, *value)
	case "pref-set":
		runPrefSet(ctx, coordinator, *id, *value)
	case "pref-rm":
		runPrefRemove(ctx, coordinator, *id)
	default:
		fmt.Printf("Unknown command: %s\n", *command)
		printUsage()
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, client *api.Client, username, password string, register bool) {
	var err error
	if register {
		_, err = client.Register(ctx, username, password)
	} else {
		_, err = client.Login(ctx, username, password)
	}
	if err != nil {
		fatalf("❌ %v", err)
	}
	fmt.Printf("✅ Logged in as %s\n", username)
}

func runStatus(store *session.Store, cfg *config.Config) {
	fmt.Printf("Backend: %s\n", cfg.API.BaseURL)
	if store.Authenticated() {
		fmt.Printf("Session: authenticated (token %s)\n", maskString(store.Token()))
	} else {
		fmt.Println("Session: not authenticated")
	}
}

func runJobs(ctx context.Context, coordinator *app.Coordinator, output string) {
	err := coordinator.LoadJobs(ctx)
	printState(coordinator.State(), output, err == nil)
	if err != nil {
		os.Exit(1)
	}
}

func runScan(ctx context.Context, coordinator *app.Coordinator, output string) {
	fmt.Println("🔍 Scanning for jobs...")
	err := coordinator.Scan(ctx)
	printState(coordinator.State(), output, err == nil)
	if err != nil {
		os.Exit(1)
	}
}

func runFetch(ctx context.Context, coordinator *app.Coordinator, params api.FetchParams, output string) {
	fmt.Println("🚀 Triggering job fetch...")
	reload, err := coordinator.FetchLatest(ctx, params)
	if err != nil {
		printState(coordinator.State(), output, false)
		os.Exit(1)
	}

	state := coordinator.State()
	if state.Message != "" {
		fmt.Println(state.Message)
	}
	fmt.Println("Waiting for the backend to ingest results...")

	// One-shot invocation: block until the scheduled reconciliation ran.
	<-reload.Done()
	printState(coordinator.State(), output, true)
}

func runPrefs(ctx context.Context, coordinator *app.Coordinator, output string) {
	if err := coordinator.LoadPreferences(ctx); err != nil {
		fatalf("❌ %v", err)
	}
	state := coordinator.State()
	if output == "json" {
		outputJSON(state.Preferences)
		return
	}
	if len(state.Preferences) == 0 {
		fmt.Println("No preferences set.")
		return
	}
	for _, p := range state.Preferences {
		fmt.Println(render.PreferenceRow(p))
	}
}

func runPrefAdd(ctx context.Context, coordinator *app.Coordinator, key, value string) {
	if err := coordinator.AddPreference(ctx, key, value); err != nil {
		fatalf("❌ %v", err)
	}
	fmt.Printf("✅ Preference %q saved\n", key)
}

func runPrefSet(ctx context.Context, coordinator *app.Coordinator, rawID, value string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		fatalf("❌ invalid preference ID: %v", err)
	}
	if err := coordinator.SetPreference(ctx, id, value); err != nil {
		fatalf("❌ %v", err)
	}
	fmt.Println("✅ Preference updated")
}

func runPrefRemove(ctx context.Context, coordinator *app.Coordinator, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		fatalf("❌ invalid preference ID: %v", err)
	}
	if err := coordinator.RemovePreference(ctx, id); err != nil {
		fatalf("❌ %v", err)
	}
	fmt.Println("✅ Preference removed")
}

func printState(state app.State, output string, withJobs bool) {
	if output == "json" {
		outputJSON(state)
		return
	}

	if state.Message != "" {
		fmt.Println(state.Message)
	}
	if state.Error != "" {
		fmt.Printf("❌ %s\n", state.Error)
	}

	if !withJobs {
		return
	}

	if len(state.Jobs) == 0 {
		fmt.Println("No jobs found. Run -cmd fetch to scrape new jobs!")
		return
	}

	fmt.Printf("=== %d jobs ===\n", len(state.Jobs))
	for _, job := range state.Jobs {
		fmt.Println(render.JobCard(job))
	}
}

func newLogger(cfg *config.Config, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Monitoring.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

func outputJSON(data interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
	}
}

func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("JobPing CLI")
	fmt.Println("Usage:")
	fmt.Println("  jobping-cli [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  -cmd login     - Log in (requires -username, -password)")
	fmt.Println("  -cmd register  - Create an account (requires -username, -password)")
	fmt.Println("  -cmd logout    - Clear the stored session")
	fmt.Println("  -cmd status    - Show backend address and session state")
	fmt.Println("  -cmd jobs      - List scored jobs")
	fmt.Println("  -cmd scan      - Run a synchronous scan and show results")
	fmt.Println("  -cmd fetch     - Trigger an async fetch, wait, then show results")
	fmt.Println("  -cmd prefs     - List preferences")
	fmt.Println("  -cmd pref-add  - Add a preference (requires -key, -value)")
	fmt.Println("  -cmd pref-set  - Update a preference (requires -id, -value)")
	fmt.Println("  -cmd pref-rm   - Remove a preference (requires -id)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string   - Configuration file (default: config.json)")
	fmt.Println("  -limit int       - Max jobs to list")
	fmt.Println("  -search string   - Fetch search term")
	fmt.Println("  -location string - Fetch location")
	fmt.Println("  -results int     - Fetch results wanted")
	fmt.Println("  -output string   - Output format: console, json (default: console)")
	fmt.Println("  -verbose         - Verbose output")
	fmt.Println("  -help            - Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  jobping-cli -cmd login -username me -password secret")
	fmt.Println("  jobping-cli -cmd jobs -limit 10")
	fmt.Println("  jobping-cli -cmd fetch -search \"golang developer\" -location Remote")
	fmt.Println("  jobping-cli -cmd pref-add -key min_salary -value 120000")
}
