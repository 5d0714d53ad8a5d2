// Package main is the entry point for the procmux terminal multiplexer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sformichella/process-manager/internal/config"
	"github.com/sformichella/process-manager/internal/history"
	"github.com/sformichella/process-manager/internal/mux"
	"github.com/sformichella/process-manager/internal/process"
	"github.com/sformichella/process-manager/internal/render"
	"github.com/sformichella/process-manager/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// chromeLines is the fixed screen overhead above the content pane: header,
// blank, tab bar, blank.
const chromeLines = 4

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var logFile *os.File
	if cfg.LogFile != "" {
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
	}

	term := terminal.New(os.Stdin, os.Stdout)
	width, height, err := term.Size()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	viewport := height - chromeLines
	if viewport < 1 {
		viewport = 1
	}

	events := make(chan any, 256)
	sup := process.NewSupervisor(events)
	for _, p := range cfg.Processes {
		if _, err := sup.Spawn(process.Spec(p)); err != nil {
			// A child that cannot spawn is fatal at session start. Tear
			// down whatever did start before reporting.
			sup.SignalAll(syscall.SIGTERM)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := term.EnterRaw(); err != nil {
		sup.SignalAll(syscall.SIGTERM)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer term.Restore()

	muxCfg := mux.Config{
		Store:          history.NewStore(len(cfg.Processes), cfg.Retention),
		Supervisor:     sup,
		Renderer:       render.NewEngine(os.Stdout, width),
		Events:         events,
		ViewportHeight: viewport,
		LogLevel:       mux.ParseLogLevel(cfg.LogLevel),
	}
	if logFile != nil {
		muxCfg.LogFile = logFile
	}
	session := mux.NewSession(muxCfg)

	// External termination must still restore the terminal; Ctrl-C arrives
	// as a raw byte, not a signal, so only outside signals land here.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-signals
		sup.SignalAll(syscall.SIGTERM)
		term.Restore()
		os.Exit(1)
	}()

	go func() {
		for chunk := range term.ReadChunks() {
			session.Post(mux.InputChunk(chunk))
		}
	}()

	return session.Run()
}

type options struct {
	configPath string
	logLevel   string
	logFile    string
	retention  int
	commands   []string
}

func parseFlags() options {
	var opts options
	var showVersion, showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Mirror the session log to a file")
	flag.IntVar(&opts.retention, "retention", 0, "Lines of history kept per process tab")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "procmux - tabbed multiplexer for long-running commands\n\n")
		fmt.Fprintf(os.Stderr, "Usage: procmux [options] [command ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  procmux -c procmux.toml            Run the configured processes\n")
		fmt.Fprintf(os.Stderr, "  procmux 'npm run dev' 'go run .'   Run ad-hoc shell commands\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("procmux %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.commands = flag.Args()
	return opts
}

// loadConfig builds the session configuration from the config file and any
// ad-hoc commands given on the command line, with flags overriding both.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	for _, cmd := range opts.commands {
		cfg.Processes = append(cfg.Processes, config.Process{
			Name:    cmd,
			Command: []string{"sh", "-c", cmd},
		})
	}
	if opts.retention > 0 {
		cfg.Retention = opts.retention
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}

	return cfg, cfg.Validate()
}
