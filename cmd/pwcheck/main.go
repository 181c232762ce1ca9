// Command pwcheck reports which candidate passwords were already used.
//
// Known passwords are loaded into a bloom filter; each candidate is then
// screened against it, in order, so repeats among the candidates are
// caught as well.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/anacrolix/tagflag"
	"go.uber.org/zap"

	"github.com/jcalabro/probkit"
)

var (
	defaultKnown      = []string{"password123", "admin123", "qwerty123"}
	defaultCandidates = []string{"password123", "newpassword", "admin123", "guest"}
)

type flags struct {
	Capacity  uint   `help:"filter size in bits"`
	HashCount uint   `help:"number of hash functions"`
	Hasher    string `help:"hash oracle: xxh3, murmur3 or xxhash"`
	Known     string `help:"file of already used passwords, one per line"`
	Verbose   bool   `help:"debug logging"`

	tagflag.StartPos
	Passwords []string `arity:"*" help:"candidate passwords"`
}

func defaultFlags() flags {
	return flags{
		Capacity:  1000,
		HashCount: 3,
		Hasher:    "xxh3",
	}
}

func main() {
	args := defaultFlags()
	tagflag.Parse(&args, tagflag.Description("screens candidate passwords against a bloom filter of used ones"))

	log := newLogger(args.Verbose)
	defer log.Sync()

	if err := run(args, log, os.Stdout); err != nil {
		log.Errorw("pwcheck failed", "error", err)
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
	hasher, ok := probkit.HasherByName(args.Hasher)
	if !ok {
		return fmt.Errorf("unknown hasher %q", args.Hasher)
	}
	if args.HashCount > math.MaxUint32 {
		return fmt.Errorf("%w: hash count %d too large", probkit.ErrInvalidConfig, args.HashCount)
	}

	filter, err := probkit.New(uint64(args.Capacity), uint32(args.HashCount), probkit.WithHasher(hasher))
	if err != nil {
		return err
	}

	known := defaultKnown
	if args.Known != "" {
		if known, err = readLines(args.Known); err != nil {
			return err
		}
	}
	for _, pw := range known {
		if err := filter.Add(pw); err != nil {
			log.Warnw("skipping known password", "error", err)
		}
	}
	log.Debugw("filter loaded",
		"known", len(known),
		"capacity", filter.Cap(),
		"k", filter.K(),
		"fill_ratio", filter.EstimatedFillRatio(),
		"est_fp_rate", filter.EstimatedFalsePositiveRate(),
	)

	candidates := args.Passwords
	if len(candidates) == 0 {
		candidates = defaultCandidates
	}

	results, err := probkit.Screen(filter, candidates)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(out, "Password '%s' — %s.\n", r.Item, r.Tag())
	}

	counts := results.Counts()
	log.Infow("screening done",
		"unique", counts[probkit.StatusUnique],
		"duplicate", counts[probkit.StatusDuplicate],
		"error", counts[probkit.StatusError],
	)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open known passwords: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read known passwords: %w", err)
	}
	return lines, nil
}
