// Command uniqueaddrs counts the distinct client addresses of a JSON access
// log, exactly and with a HyperLogLog sketch, and prints how far apart the
// two counts are.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anacrolix/tagflag"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/jcalabro/probkit"
	"github.com/jcalabro/probkit/cardinality"
	"github.com/jcalabro/probkit/logsource"
)

type flags struct {
	Precision uint `help:"sketch precision, 2^precision registers"`
	Progress  bool `help:"show a progress bar while reading"`
	Verbose   bool `help:"debug logging"`

	tagflag.StartPos
	LogFile string `help:"access log, optionally gzipped"`
}

func defaultFlags() flags {
	return flags{Precision: 14}
}

func main() {
	args := defaultFlags()
	tagflag.Parse(&args, tagflag.Description("compares exact and HyperLogLog counts of unique client addresses"))

	log := newLogger(args.Verbose)
	defer log.Sync()

	if err := run(args, log, os.Stdout); err != nil {
		log.Errorw("uniqueaddrs failed", "file", args.LogFile, "error", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	return logger.Sugar()
}

func run(args flags, log *zap.SugaredLogger, out io.Writer) error {
	// Checked before narrowing so large values cannot wrap into range, and
	// before the log is read.
	if args.Precision < cardinality.MinPrecision || args.Precision > cardinality.MaxPrecision {
		return fmt.Errorf("%w: precision %d out of range [%d, %d]",
			probkit.ErrInvalidConfig, args.Precision, cardinality.MinPrecision, cardinality.MaxPrecision)
	}

	addrs, stats, err := load(args.LogFile, args.Progress)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("log file %q not found: %w", args.LogFile, err)
		}
		return err
	}
	log.Infow("log loaded", "lines", stats.Total, "invalid", stats.Invalid, "addresses", len(addrs))

	if len(addrs) == 0 {
		return errors.New("no valid address found in log")
	}

	rec, err := cardinality.Compare(addrs, uint8(args.Precision))
	if err != nil {
		return err
	}
	log.Debugw("comparison done",
		"exact_elapsed", rec.ExactElapsed,
		"sketch_elapsed", rec.SketchElapsed,
	)

	printRecord(out, rec)
	return nil
}

func load(path string, progress bool) ([][]byte, logsource.Stats, error) {
	var opts []logsource.Option
	if progress {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, logsource.Stats{}, err
		}
		bar := progressbar.DefaultBytes(fi.Size(), "reading")
		defer bar.Finish()
		opts = append(opts, logsource.WithProgress(bar))
	}

	rd, err := logsource.Open(path, opts...)
	if err != nil {
		return nil, logsource.Stats{}, err
	}
	defer rd.Close()

	return rd.Addrs()
}

func printRecord(w io.Writer, rec cardinality.Record) {
	rule := strings.Repeat("-", 57)
	fmt.Fprintln(w, "\nComparison results:")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-25s %15s %15s\n", "Metric", "Exact count", "HyperLogLog")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-25s %15.1f %15.1f\n", "Unique elements", float64(rec.ExactCount), rec.SketchCount)
	fmt.Fprintf(w, "%-25s %15.6f %15.6f\n", "Execution time (sec.)", rec.ExactElapsed.Seconds(), rec.SketchElapsed.Seconds())
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nHyperLogLog relative error: %.2f%%\n", rec.RelativeErrorPercent)
}
