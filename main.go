package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/thedittmer/news-search/internal/config"
	"github.com/thedittmer/news-search/internal/fetcher"
	"github.com/thedittmer/news-search/internal/logger"
	"github.com/thedittmer/news-search/internal/reporter"
	"github.com/thedittmer/news-search/internal/storage"
	"github.com/thedittmer/news-search/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configFile string
	dataDir    string
	provider   string
	apiURL     string
	out        string
	jsonOut    string
	sheets     bool
	preview    bool
	sleep      time.Duration
}

// app carries the streams of one run so prompts and messages can be tested.
type app struct {
	in     *bufio.Reader
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("news-search", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configFile, "config", "", "Path to YAML configuration file (default ~/.news-search/config.yaml)")
	fs.StringVar(&opts.dataDir, "data-dir", "", "Directory for config, .env and export state (default ~/.news-search)")
	fs.StringVar(&opts.provider, "provider", "", "News provider: serpapi or googlenews (overrides config)")
	fs.StringVar(&opts.apiURL, "api-url", "", "Search endpoint URL (overrides config)")
	fs.StringVar(&opts.out, "out", "", "Report file path (overrides config)")
	fs.StringVar(&opts.jsonOut, "json", "", "Also write ranked results as JSON to this path")
	fs.BoolVar(&opts.sheets, "sheets", false, "Export ranked results to Google Sheets")
	fs.BoolVar(&opts.preview, "preview", false, "Print the top articles to the terminal")
	fs.DurationVar(&opts.sleep, "sleep", -1, "Pause between page requests (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: news-search [flags] [company] [count]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	a := &app{
		in:     bufio.NewReader(stdin),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	return a.search(opts, fs.Args())
}

func (a *app) search(opts options, args []string) int {
	var (
		st  *storage.Storage
		err error
	)
	if opts.dataDir != "" {
		st, err = storage.NewStorage(opts.dataDir)
	} else {
		st, err = storage.NewDefaultStorage()
	}
	if err != nil {
		a.fail("Error preparing data directory: %v", err)
		return 1
	}

	config.LoadDotEnv(".env", st.Path(".env"))

	cfg, err := loadConfig(opts, st)
	if err != nil {
		a.fail("Error loading configuration: %v", err)
		return 1
	}

	log := logger.New(a.stderr, cfg.Logging.Level)
	log.Debug("configuration loaded", "config", cfg.String(), "data_dir", st.DataDir())

	company, count, ok := a.readQuery(args, cfg.Search.DefaultCount)
	if !ok {
		fmt.Fprintln(a.stdout, "No company provided. Exiting.")
		return 0
	}

	if cfg.NeedsAPIKey() && cfg.APIKey == "" {
		a.printKeyHints()
		cfg.APIKey = a.promptSecret("Enter your SerpApi key (won't be saved): ")
		if err := cfg.RequireAPIKey(); err != nil {
			fmt.Fprintln(a.stdout, "SerpApi key is required to run searches. Get one at https://serpapi.com/")
			return 0
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider := newProvider(cfg)
	log = log.With("company", company)
	log.Info("searching news", "provider", provider.Name(), "count", count)

	res := fetcher.NewPaginator(provider, log).Fetch(ctx, company, fetcher.Options{
		Limit:        count,
		PageSize:     config.PageSize(count),
		MaxPages:     cfg.Search.MaxPages,
		SleepBetween: cfg.SleepBetween(),
		Progress:     a.progress,
	})

	if res.Err != nil && len(res.Articles) == 0 {
		var httpErr *fetcher.HTTPError
		if errors.As(res.Err, &httpErr) {
			a.fail("HTTP error fetching news: %v", res.Err)
		} else {
			a.fail("Error fetching news: %v", res.Err)
		}
		return 1
	}
	if res.Err != nil {
		log.Warn("search stopped early", "collected", len(res.Articles), "error", res.Err)
	}

	generatedAt := time.Now()
	scored := reporter.Rank(res.Articles, company)

	var report bytes.Buffer
	written, err := reporter.Write(&report, scored, count, generatedAt)
	if err != nil {
		a.fail("Error rendering report: %v", err)
		return 1
	}
	if err := storage.WriteReport(cfg.Output.Path, report.String()); err != nil {
		a.fail("Error writing report: %v", err)
		return 1
	}
	fmt.Fprintln(a.stdout, ui.SuccessStyle.Render(fmt.Sprintf("Wrote top %d results to %s", written, cfg.Output.Path)))

	if cfg.Output.JSONPath != "" {
		if err := storage.SaveResultsJSON(cfg.Output.JSONPath, company, scored, count, generatedAt); err != nil {
			log.Error("json export failed", "path", cfg.Output.JSONPath, "error", err)
		} else {
			fmt.Fprintf(a.stdout, "Saved ranked results to %s\n", cfg.Output.JSONPath)
		}
	}

	if cfg.Sheets.Enabled {
		exported := st.ExportToSheets(ctx, storage.SheetsConfig{
			CredentialsFile: cfg.Sheets.CredentialsFile,
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			FolderID:        cfg.Sheets.FolderID,
		}, company, scored, count)
		if exported.Error != nil {
			log.Error("sheets export failed", "error", exported.Error)
			fmt.Fprintln(a.stderr, ui.ErrorStyle.Render(fmt.Sprintf("Sheets export failed: %v", exported.Error)))
		} else {
			fmt.Fprintf(a.stdout, "Exported %d rows to %s\n", exported.Rows, ui.LinkStyle.Render(exported.URL))
		}
	}

	if cfg.Output.Preview {
		fmt.Fprint(a.stdout, reporter.Preview(scored, count, a.width()))
	}

	return 0
}

func loadConfig(opts options, st *storage.Storage) (*config.Config, error) {
	path, optional := opts.configFile, false
	if path == "" {
		path, optional = st.Path("config.yaml"), true
	}

	cfg, err := config.LoadConfig(path, optional)
	if err != nil {
		return nil, err
	}

	if opts.provider != "" {
		cfg.Search.Provider = strings.ToLower(opts.provider)
	}
	if opts.apiURL != "" {
		cfg.Search.APIURL = opts.apiURL
	}
	if opts.out != "" {
		cfg.Output.Path = opts.out
	}
	if opts.jsonOut != "" {
		cfg.Output.JSONPath = opts.jsonOut
	}
	if opts.sheets {
		cfg.Sheets.Enabled = true
	}
	if opts.preview {
		cfg.Output.Preview = true
	}
	if opts.sleep >= 0 {
		cfg.Search.SleepBetweenMs = int(opts.sleep / time.Millisecond)
	}

	return cfg, cfg.Validate()
}

func newProvider(cfg *config.Config) fetcher.Provider {
	if cfg.Search.Provider == config.ProviderGoogleNews {
		return fetcher.NewGoogleNewsClient(fetcher.GoogleNewsConfig{
			BaseURL:  cfg.Search.APIURL,
			Language: cfg.Search.Language,
			Region:   cfg.Search.Region,
			Timeout:  cfg.Timeout(),
		})
	}

	return fetcher.NewSerpAPIClient(cfg.APIKey, fetcher.SerpAPIConfig{
		BaseURL: cfg.Search.APIURL,
		Engine:  cfg.Search.Engine,
		Timeout: cfg.Timeout(),
	})
}

// readQuery takes company and count from the arguments, or prompts for them.
// A count that is not a positive integer falls back to defaultCount.
func (a *app) readQuery(args []string, defaultCount int) (string, int, bool) {
	var company, countIn string

	if len(args) > 0 {
		company = strings.TrimSpace(args[0])
		if len(args) > 1 {
			countIn = args[1]
		}
	} else {
		company = a.prompt("Enter company name to search news for: ")
		if company == "" {
			return "", 0, false
		}
		countIn = a.prompt(fmt.Sprintf("How many articles to return [default %d]: ", defaultCount))
	}

	if company == "" {
		return "", 0, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(countIn))
	if err != nil || count < 1 {
		count = defaultCount
	}

	return company, count, true
}

func (a *app) prompt(label string) string {
	fmt.Fprint(a.stdout, ui.PromptStyle.Render(label))
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSecret hides the typed key when stdin is a terminal.
func (a *app) promptSecret(label string) string {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.prompt(label)
	}

	fmt.Fprint(a.stdout, ui.PromptStyle.Render(label))
	key, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.stdout)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(key))
}

func (a *app) printKeyHints() {
	fmt.Fprintln(a.stdout, ui.WarningStyle.Render(config.APIKeyEnv+" not found in environment."))
	fmt.Fprintln(a.stdout, ui.DimStyle.Render("Tip: export "+config.APIKeyEnv+"=your_key in your shell profile,"))
	fmt.Fprintln(a.stdout, ui.DimStyle.Render("or put "+config.APIKeyEnv+"=your_key in a .env file here or in ~/"+storage.DataDirName+"."))
	fmt.Fprintln(a.stdout, ui.DimStyle.Render("Use -provider googlenews to search without a key."))
}

func (a *app) progress(page, collected int) error {
	_, err := fmt.Fprintln(a.stderr, ui.DimStyle.Render(fmt.Sprintf("Fetched page %d (%d articles)", page, collected)))
	return err
}

func (a *app) width() int {
	if f, ok := a.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			return w
		}
	}
	return 80
}

func (a *app) fail(format string, args ...any) {
	fmt.Fprintln(a.stderr, ui.ErrorStyle.Render(fmt.Sprintf(format, args...)))
}
