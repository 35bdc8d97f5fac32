package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"avmcore/pkg/builtins"
	"avmcore/pkg/config"
	"avmcore/pkg/vm"
)

func main() {
	// Define flags
	configFlag := flag.String("config", "", "Configuration file (default: nearest avmcore.toml)")
	swfFlag := flag.Int("swf", 0, "Override the SWF version")
	verboseFlag := flag.Int("v", -1, "Log verbosity (overrides log_verbosity)")
	snapshotFlag := flag.String("snapshot", "", "Write a CBOR heap snapshot to this file ('-' for stdout)")
	decodeFlag := flag.String("decode", "", "Summarize a heap snapshot file and exit")
	collectFlag := flag.Bool("collect", false, "Run a collection before reporting")

	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Usage: avmcore [-config file] [-swf n] [-snapshot file] [-decode file]\n")
		os.Exit(64) // Exit code 64: command line usage error
	}

	if *decodeFlag != "" {
		if err := summarize(*decodeFlag, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "avmcore: %v\n", err)
			os.Exit(70)
		}
		return
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "avmcore: %v\n", err)
		os.Exit(78) // Exit code 78: configuration error
	}
	if *swfFlag > 0 {
		cfg.SWFVersion = uint8(*swfFlag)
	}
	verbosity := cfg.LogVerbosity
	if *verboseFlag >= 0 {
		verbosity = *verboseFlag
	}
	commonlog.Configure(verbosity, nil)

	machine, err := vm.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "avmcore: %v\n", err)
		os.Exit(78)
	}
	if err := builtins.Initialize(machine); err != nil {
		fmt.Fprintf(os.Stderr, "avmcore: %v\n", err)
		os.Exit(70) // Exit code 70: internal software error
	}
	if *collectFlag {
		machine.Heap().Collect()
	}

	if *snapshotFlag != "" {
		if err := writeSnapshot(machine, *snapshotFlag); err != nil {
			fmt.Fprintf(os.Stderr, "avmcore: %v\n", err)
			os.Exit(70)
		}
	}
	if *snapshotFlag != "-" {
		report(machine, os.Stdout)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FindAndLoad(".")
}

func writeSnapshot(machine *vm.VM, path string) error {
	data, err := vm.EncodeSnapshot(machine.Snapshot())
	if err != nil {
		return err
	}
	if path == "-" {
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("refusing to write a binary snapshot to a terminal")
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func report(machine *vm.VM, w io.Writer) {
	stats := machine.Stats()
	cfg := machine.Config()
	fmt.Fprintf(w, "vm        %s\n", machine.ID())
	if cfg.Path != "" {
		fmt.Fprintf(w, "config    %s\n", cfg.Path)
	}
	fmt.Fprintf(w, "swf       %d\n", cfg.SWFVersion)
	fmt.Fprintf(w, "classes   %v\n", machine.Realm().Classes())
	fmt.Fprintf(w, "objects   %d live, %d allocated, %d collections\n",
		stats.Heap.Live, stats.Heap.Allocated, stats.Heap.Collections)
	fmt.Fprintf(w, "calls     %d\n", stats.Calls)
}

func summarize(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	snap, err := vm.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	kinds := make(map[string]int)
	slots := 0
	for _, o := range snap.Objects {
		kinds[o.Kind]++
		slots += len(o.Slots)
	}
	fmt.Fprintf(w, "vm        %s\n", snap.VM)
	fmt.Fprintf(w, "swf       %d\n", snap.SWFVersion)
	fmt.Fprintf(w, "objects   %d (%d object, %d function, %d native)\n",
		len(snap.Objects), kinds["object"], kinds["function"], kinds["native"])
	fmt.Fprintf(w, "slots     %d\n", slots)
	return nil
}
