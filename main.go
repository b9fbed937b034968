package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"pathshadow/internal/assoc"
	"pathshadow/internal/config"
	"pathshadow/internal/model"
	"pathshadow/internal/shadow"
	"pathshadow/internal/tui"
	"pathshadow/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "abulka",
		Repository: "pathshadow",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/abulka/pathshadow/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pathshadow [options]\n\n")
		fmt.Fprintf(os.Stderr, "pathshadow finds executables that are hidden (shadowed) by a file of the\n")
		fmt.Fprintf(os.Stderr, "same name in an earlier directory of your search path.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pathshadow                        # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  pathshadow --report               # Print shadow report to stdout\n")
		fmt.Fprintf(os.Stderr, "  pathshadow -r --ext .exe,.cmd     # Only consider .exe and .cmd files\n")
		fmt.Fprintf(os.Stderr, "  pathshadow --json --workers 8     # Output report as JSON, list 8 dirs at once\n")
		fmt.Fprintf(os.Stderr, "  pathshadow --assoc               # List file associations (Windows)\n")
	}

	config.RegisterFlags(pflag.CommandLine)
	jsonFlag := pflag.BoolP("json", "j", false, "Output the shadow report as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print the shadow report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include ordinals in the report and log debug output")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode (see --addr)")
	assocFlag := pflag.Bool("assoc", false, "List file extensions and the command that opens them")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("pathshadow version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: config.AppName})
	if *verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, configFile, err := config.Load(pflag.CommandLine)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	if configFile != "" {
		logger.Debug("loaded config", "file", configFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fsys := afero.NewOsFs()
	opts := cfg.ShadowOptions(logger)
	scan := shadow.Scanner(fsys, cfg.Path, cfg.Separator, opts)

	switch {
	case *assocFlag:
		runAssocMode(ctx, logger)
	case *webFlag:
		runWebMode(ctx, scan, shadow.NewAggregator(fsys, opts), fsys, cfg.Addr, logger)
	case *reportFlag:
		runReportMode(ctx, scan, *outputFlag, cfg.Verbose, logger)
	case *jsonFlag:
		runJsonMode(ctx, scan, logger)
	default:
		runTuiMode(scan, fsys)
	}
}

// runScan runs one scan, logging faults. A ConfigurationError is fatal; an
// interrupted scan still yields its partial report.
func runScan(ctx context.Context, scan shadow.ScanFunc, logger *log.Logger) model.ShadowReport {
	report, err := scan(ctx)
	if err != nil {
		if !report.Partial {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Warn("scan interrupted, reporting partial results", "err", err)
	}
	for _, f := range report.Faults {
		logger.Warn("could not list directory", "dir", f.Directory.Path, "kind", f.Kind, "err", f.Message)
	}
	return report
}

func runReportMode(ctx context.Context, scan shadow.ScanFunc, outputFile string, verbose bool, logger *log.Logger) {
	report := runScan(ctx, scan, logger)
	text := shadow.GenerateReport(report, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(text), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Print(text)
	}
}

func runJsonMode(ctx context.Context, scan shadow.ScanFunc, logger *log.Logger) {
	report := runScan(ctx, scan, logger)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(1)
	}
}

func runWebMode(ctx context.Context, scan shadow.ScanFunc, lister web.DirLister, fsys afero.Fs, addr string, logger *log.Logger) {
	fmt.Printf("Starting pathshadow web server at http://%s\n", addr)
	if err := web.NewServer(scan, lister, fsys, logger).ListenAndServe(ctx, addr); err != nil {
		logger.Fatal("web server stopped", "err", err)
	}
}

func runAssocMode(ctx context.Context, logger *log.Logger) {
	rows, err := assoc.List(ctx, assoc.NewStore())
	if err != nil && rows == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		logger.Warn("some associations could not be read", "err", err)
	}
	fmt.Print(assoc.Format(rows))
}

func runTuiMode(scan shadow.ScanFunc, fsys afero.Fs) {
	m := tui.InitialModel(scan, fsys)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
