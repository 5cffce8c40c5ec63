// Package fontfix parses fontfix flags and repairs font files on disk.
package fontfix

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	entrypoint "github.com/louisbranch/zitie/internal/platform/cmd"
	"github.com/louisbranch/zitie/internal/services/worksheet/repair"
)

// Config holds fontfix command configuration.
type Config struct {
	// In is a font path or a glob such as "fonts/**/*.ttf".
	In string
	// Out is the output path. It is only valid when In matches one file;
	// otherwise each result lands next to its input.
	Out string
}

// ParseConfig parses flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.In, "in", "", "The font file or glob pattern to repair")
	fs.StringVar(&cfg.Out, "out", "", "The output file (default <name>_fixed.ttf next to the input)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.In == "" && fs.NArg() > 0 {
		cfg.In = fs.Arg(0)
	}
	cfg.In = strings.TrimSpace(cfg.In)
	cfg.Out = strings.TrimSpace(cfg.Out)
	if cfg.In == "" {
		return Config{}, errors.New("an input font is required (-in)")
	}
	return cfg, nil
}

// Run repairs every font matched by cfg.In and reports each result to out.
// It fails when any font could not be repaired.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	started := time.Now()
	inputs, err := expand(cfg.In)
	if err != nil {
		return err
	}
	if cfg.Out != "" && len(inputs) > 1 {
		return fmt.Errorf("-out needs a single input, %q matched %d files", cfg.In, len(inputs))
	}

	failed := 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := cfg.Out
		if target == "" {
			target = filepath.Join(filepath.Dir(input), repair.FixedName(filepath.Base(input)))
		}
		result, err := repairFile(input, target)
		if err != nil {
			failed++
			log.Printf("repair %s: %v", input, err)
			fmt.Fprintf(out, "FAIL %s: %v\n", input, err)
			continue
		}
		fmt.Fprintf(out, "OK   %s -> %s (%s, %d glyphs, %s outlines)\n",
			input, target, humanize.Bytes(uint64(len(result.Data))), result.NumGlyphs, result.Outlines)
	}

	elapsed := durafmt.Parse(time.Since(started).Round(time.Millisecond)).LimitFirstN(2)
	fmt.Fprintf(out, "repaired %d of %d fonts in %s\n", len(inputs)-failed, len(inputs), elapsed)
	if failed > 0 {
		return fmt.Errorf("%d of %d fonts could not be repaired", failed, len(inputs))
	}
	return nil
}

// expand resolves pattern to the files it names. A plain path is returned
// as is so a missing file reports a read error.
func expand(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no fonts match %q", pattern)
	}
	return matches, nil
}

func repairFile(input, target string) (repair.Result, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return repair.Result{}, err
	}
	result, err := repair.Repair(filepath.Base(input), data)
	if err != nil {
		return repair.Result{}, err
	}
	if err := os.WriteFile(target, result.Data, 0o644); err != nil {
		return repair.Result{}, fmt.Errorf("write %s: %w", target, err)
	}
	return result, nil
}
