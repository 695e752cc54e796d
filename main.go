package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/cdclsolve/cdclsolve/internal/dimacs"
	"github.com/cdclsolve/cdclsolve/internal/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagVerbose = flag.Bool(
	"v",
	false,
	"print search statistics to stdout while solving",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"treat the instance file as gzip-compressed",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzip,
		verbose:      *flagVerbose,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
	}, nil
}

type config struct {
	instanceFile string
	gzipped      bool
	verbose      bool
	memProfile   bool
	cpuProfile   bool
}

// run loads cfg.instanceFile, solves it, and prints the result:
// "SAT" followed by a model line, or "UNSAT".
func run(cfg *config) error {
	s := sat.NewDefaultSolver()
	s.Verbose = cfg.verbose

	if err := dimacs.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not load instance: %w", err)
	}

	if s.Solve() != sat.True {
		fmt.Println("UNSAT")
		return nil
	}

	fmt.Println("SAT")
	fmt.Println(modelLine(s))
	return nil
}

// modelLine renders the most recently found model as a DIMACS-style
// "v <lit1> <lit2> ... 0" line, one signed literal per declared
// variable, 1-based and in variable order.
func modelLine(s *sat.Solver) string {
	assignment := s.Models[len(s.Models)-1]

	var sb strings.Builder
	sb.WriteString("v")
	for v, value := range assignment {
		if value {
			fmt.Fprintf(&sb, " %d", v+1)
		} else {
			fmt.Fprintf(&sb, " -%d", v+1)
		}
	}
	sb.WriteString(" 0")
	return sb.String()
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
