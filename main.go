// ABOUTME: Entry point for profile-viewer application
// ABOUTME: Handles command-line parsing, profiling, and routing to replay or TUI modes

// Package main provides the entry point for profile-viewer, a terminal rendering of a collapsible sports profile screen.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"profile-viewer/config"
	"profile-viewer/logging"
	"profile-viewer/profile"
	"profile-viewer/tui"
)

const debugLogFile = "profile-viewer-debug.log"

func main() {
	os.Exit(run())
}

func run() int {
	var opts RunOptions
	var contextSport, viewerSport string
	var cpuprofile, memprofile string

	flagSet := pflag.NewFlagSet("profile-viewer", pflag.ContinueOnError)
	flagSet.StringVar(&opts.SubjectID, "subject", "", "profile owner to display (default: the fixture's viewer)")
	flagSet.StringVar(&opts.ViewerID, "viewer", "", "signed-in user (default: the fixture's viewer)")
	flagSet.StringVar(&contextSport, "context-sport", "", "sport of the screen that navigated here")
	flagSet.StringVar(&viewerSport, "viewer-sport", "", "signed-in user's own sport preference")
	flagSet.StringVar(&opts.ConfigPath, "config", "", "config file (default: ./profile-viewer.toml or ~/.config/profile-viewer/config.toml)")
	flagSet.StringVar(&opts.ReplayPath, "replay", "", "replay an event script headlessly and print the view state (- for stdin)")
	flagSet.BoolVar(&opts.DebugLog, "debug", false, "enable debug logging to "+debugLogFile)
	flagSet.StringVar(&cpuprofile, "cpuprofile", "", "write cpu profile to file")
	flagSet.StringVar(&memprofile, "memprofile", "", "write memory profile to file")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(flagSet)
			return 0
		}

		log.Printf("%v", err)

		return 2
	}

	args := flagSet.Args()
	if len(args) > 1 {
		printUsage(flagSet)
		return 1
	}

	if len(args) == 1 {
		opts.FixturePath = args[0]
	}

	var err error

	if opts.ContextSport, err = parseSportFlag("context-sport", contextSport); err != nil {
		log.Printf("%v", err)
		return 2
	}

	if opts.ViewerSport, err = parseSportFlag("viewer-sport", viewerSport); err != nil {
		log.Printf("%v", err)
		return 2
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = config.GetConfigPath()
	}

	if cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(cpuprofile)
		defer stopCPUProfile()
	}

	if memprofile != "" {
		defer writeMemoryProfile(memprofile)
	}

	if opts.DebugLog {
		closeLog, err := SetupDebugLog(debugLogFile)
		if err != nil {
			log.Printf("Failed to setup debug log: %v", err)
			return 1
		}
		defer closeLog()
	}

	if opts.ReplayPath != "" {
		if err := RunReplay(opts, os.Stdout); err != nil {
			log.Printf("Replay error: %v", err)
			return 1
		}

		return 0
	}

	screen, err := InitializeScreen(opts)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	if err := tui.Run(tui.Options{
		FixturePath:  opts.FixturePath,
		Directory:    screen.Directory,
		ConfigPath:   opts.ConfigPath,
		SubjectID:    screen.Subject.ID,
		ViewerID:     screen.ViewerID,
		ContextSport: opts.ContextSport,
		ViewerSport:  screen.Inputs.Viewer,
	}, tui.Dependencies{
		ConfigProvider: screen.SharedConfig,
		Store:          screen.Store,
		LoadDirectory:  profile.LoadDirectory,
		LoadConfig:     config.LoadConfig,
		Logger:         logging.Default().Named("tui"),
	}); err != nil {
		log.Printf("TUI error: %v", err)
		return 1
	}

	return 0
}

// parseSportFlag converts a sport flag value; empty means the flag was not given
func parseSportFlag(name, value string) (profile.Sport, error) {
	if value == "" {
		return "", nil
	}

	sport, ok := profile.ParseSport(value)
	if !ok {
		known := make([]string, len(profile.Sports))
		for i, s := range profile.Sports {
			known[i] = string(s)
		}

		return "", errors.Newf("unknown --%s %q (known: %s)", name, value, strings.Join(known, ", "))
	}

	return sport, nil
}

// printUsage prints the command synopsis and flags
func printUsage(flagSet *pflag.FlagSet) {
	fmt.Println("Usage: profile-viewer [flags] [fixture.json|fixture.yaml]")
	fmt.Println("Example: profile-viewer --subject u-alex --viewer u-jordan profiles.yaml")
	fmt.Println("\nWithout a fixture the built-in sample profiles are shown.")
	fmt.Println("\nFlags:")
	flagSet.PrintDefaults()
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
