package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amr9/gofetch/internal/debug"
	"github.com/amr9/gofetch/internal/report"
	"github.com/amr9/gofetch/internal/telemetry"
	"github.com/amr9/gofetch/internal/tui"
	"github.com/amr9/gofetch/pkg/config"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\nfatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	runtime.GOMAXPROCS(runtime.NumCPU())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nreceived interrupt signal, shutting down")
		cancel()
	}()

	var (
		configPath string
		debugMode  bool
		htmlOut    string
		jsonOut    string
	)

	flag.StringVar(&configPath, "config", "", "path to scenario YAML file")
	flag.StringVar(&configPath, "f", "", "path to scenario YAML file (shorthand)")
	flag.BoolVar(&debugMode, "debug", false, "run once and print every request/response, skipping the TUI")
	flag.BoolVar(&debugMode, "d", false, "run in debug mode (shorthand)")
	flag.StringVar(&htmlOut, "html", "report.html", "path to write the HTML report")
	flag.StringVar(&jsonOut, "json", "", "optional path to write the raw telemetry summary as JSON")
	flag.Parse()

	if configPath == "" {
		fmt.Println("usage: gofetchctl -config scenario.yaml [--debug] [-html report.html] [-json summary.json]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		os.Exit(1)
	}

	if debugMode {
		if err := debug.Run(ctx, cfg); err != nil {
			fmt.Printf("debug mode error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(tui.NewModel(cfg))
	m, err := p.Run()
	if err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}

	finalModel, ok := m.(tui.MainModel)
	if !ok {
		return
	}

	summary := finalModel.Summary()
	if summary.TotalRequests == 0 {
		return
	}

	report.WriteConsole(os.Stdout, summary)

	if htmlOut != "" {
		if err := writeHTMLReport(htmlOut, summary); err != nil {
			fmt.Printf("warning: failed to write HTML report: %v\n", err)
		} else {
			fmt.Printf("\nHTML report saved to %s\n", htmlOut)
		}
	}

	if jsonOut != "" {
		if err := writeJSONSummary(jsonOut, summary); err != nil {
			fmt.Printf("warning: failed to write JSON summary: %v\n", err)
		} else {
			fmt.Printf("summary saved to %s\n", jsonOut)
		}
	}
}

func writeHTMLReport(path string, summary telemetry.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %q: %w", path, err)
	}
	defer f.Close()
	return report.WriteHTML(f, summary)
}

func writeJSONSummary(path string, summary telemetry.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return f.Sync()
}
