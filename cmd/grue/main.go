// Grue CLI - runs Z-machine story files in a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/grue/config"
	"github.com/chazu/grue/vm"
	"github.com/chazu/grue/vm/save"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("grue")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	trace := flag.Bool("trace", false, "Log every instruction (very noisy)")
	seed := flag.Int64("seed", 0, "Fix the random seed (0 = nondeterministic)")
	configPath := flag.String("config", "", "Configuration file (default ~/.config/grue/grue.toml)")
	savesDir := flag.String("saves", "", "Save database directory (overrides config)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grue [options] story.z3\n\n")
		fmt.Fprintf(os.Stderr, "Runs an Infocom-format story file (versions 1-8).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  grue zork1.z3            # Play\n")
		fmt.Fprintf(os.Stderr, "  grue -seed 7 zork1.z3    # Reproducible randomness\n")
		fmt.Fprintf(os.Stderr, "  grue -trace zork1.z3     # Instruction trace to the log\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *savesDir != "" {
		cfg.Save.Dir = *savesDir
	}

	verbosity := logVerbosity(cfg.Log.Level)
	if *verbose {
		verbosity++
	}
	commonlog.Configure(verbosity, nil)

	storyPath := flag.Arg(0)
	image, err := os.ReadFile(storyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading story: %v\n", err)
		os.Exit(1)
	}

	identity, err := save.IdentityFromStory(image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Save.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating save directory: %v\n", err)
		os.Exit(1)
	}
	store, err := save.OpenStore(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ui := newTerminal(cfg, identity, store)
	defer ui.Close()

	machine, err := vm.NewMachine(image, ui)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading story: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *seed != 0:
		machine.Seed(*seed)
	case cfg.Random.Seed != 0:
		machine.Seed(cfg.Random.Seed)
	}
	if *trace {
		machine.Trace = func(pc int, opcode byte) {
			log.Debugf("pc=0x%05X opcode=0x%02X", pc, opcode)
		}
	}

	log.Infof("loaded %s (version %d, %d bytes)", storyPath, machine.Version().Number, len(image))

	if err := machine.Execute(); err != nil {
		ui.Close()
		var failure *vm.Failure
		if errors.As(err, &failure) {
			fmt.Fprintf(os.Stderr, "\nFatal: %v\n", failure)
		} else {
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefaultFile()
}

func logVerbosity(level string) int {
	switch level {
	case "debug":
		return 2
	case "info":
		return 1
	default:
		return 0
	}
}
