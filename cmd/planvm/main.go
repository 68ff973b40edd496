// planvm CLI - validates and executes plan documents
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/planvm/config"
	"github.com/chazu/planvm/dispatch"
	"github.com/chazu/planvm/plan"
	"github.com/chazu/planvm/trace"
	"github.com/chazu/planvm/vm"
)

const version = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "run":
		err = runCmd(flag.Args()[1:])
	case "check":
		err = checkCmd(flag.Args()[1:])
	case "version":
		fmt.Printf("planvm %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: planvm <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run <plan>     Execute a plan document\n")
	fmt.Fprintf(os.Stderr, "  check <plan>   Validate a plan document without executing it\n")
	fmt.Fprintf(os.Stderr, "  version        Print the version\n\n")
	fmt.Fprintf(os.Stderr, "Plans are JSON documents; files ending in .cbor are decoded as CBOR.\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  planvm check extrude.json\n")
	fmt.Fprintf(os.Stderr, "  planvm run extrude.json -dump\n")
	fmt.Fprintf(os.Stderr, "  planvm run batch.cbor -target api.example.com:443\n")
}

// loadPlan reads and decodes a plan document. JSON documents are also
// validated against the schema; CBOR documents are decoded directly.
func loadPlan(path string) (*plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".cbor") {
		p, err := plan.UnmarshalCBOR(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return &p, nil
	}

	var p plan.Plan
	if err := plan.Validate(data); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if err := p.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &p, nil
}

func checkCmd(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("check expects exactly one plan file")
	}

	p, err := loadPlan(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d instructions)\n", fs.Arg(0), len(p.Instructions))
	return nil
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	target := fs.String("target", "", "gRPC endpoint for ApiRequest dispatch (overrides planvm.toml)")
	dump := fs.Bool("dump", false, "Print occupied memory cells after the run")
	verbosity := fs.Int("v", -1, "Log verbosity (overrides planvm.toml)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("run expects exactly one plan file")
	}

	// A present but broken planvm.toml is an error; a missing one just
	// means defaults.
	cfg, err := config.Load(".")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		cfg = config.Default()
	}
	if *target != "" {
		cfg.Dispatch.Target = *target
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}

	commonlog.Configure(cfg.Log.Verbosity, nil)
	log := commonlog.GetLogger("planvm")

	p, err := loadPlan(fs.Arg(0))
	if err != nil {
		return err
	}

	in := &vm.Interpreter{}
	if cfg.Dispatch.Target != "" {
		remote, err := dispatch.DialRemote(cfg.Dispatch.Target)
		if err != nil {
			return err
		}
		defer remote.Close()
		in.Dispatcher = remote
	}

	if cfg.Trace.Enabled {
		store, err := trace.Open(cfg.Trace.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		runID, err := store.Begin()
		if err != nil {
			return err
		}
		log.Infof("tracing run %s to %s", runID, cfg.Trace.Path)
		in.Tracer = store
	}

	mem := vm.NewMemorySize(cfg.Memory.Capacity)
	if err := in.Execute(context.Background(), mem, p.Instructions); err != nil {
		return err
	}
	log.Infof("executed %d instructions", len(p.Instructions))

	if *dump {
		dumpMemory(mem)
	}
	return nil
}

func dumpMemory(mem *vm.Memory) {
	for addr := vm.Address(0); int(addr) < mem.Len(); addr++ {
		if v := mem.Get(addr); v != nil {
			fmt.Printf("%s: %s\n", addr, v)
		}
	}
}
