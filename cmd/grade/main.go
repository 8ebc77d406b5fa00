// Command grade applies a color grade to a photo from the command line.
//
//	grade -in photo.jpg -out graded.png -adjust look.json -set exposure=15
//	grade -presets presets.json -list -search kodak
//	grade -in photo.jpg -out - -format jpeg -presets presets.json -preset portra-400 > out.jpg
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/gogpu/grade"
	imgio "github.com/gogpu/grade/internal/image"
	"github.com/gogpu/grade/preset"
)

var errUsage = errors.New("usage")

// setFlags collects repeated -set key=value pairs into a fragment.
type setFlags grade.Fragment

func (s setFlags) String() string { return "" }

func (s setFlags) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", v)
	}
	if n, err := strconv.ParseFloat(val, 64); err == nil {
		s[key] = n
	} else {
		s[key] = val
	}
	return nil
}

type config struct {
	in, out, format string
	adjust          string
	presets, preset string
	list            bool
	search          string
	set             setFlags
	maxSize         int
	compare         bool
	quality         int
	seed            uint64
	seeded          bool
	verbose         bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{set: setFlags{}}
	fs := flag.NewFlagSet("grade", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.in, "in", "", "input image (png, jpeg, bmp, tiff, webp)")
	fs.StringVar(&cfg.out, "out", "", "output image, or - for stdout")
	fs.StringVar(&cfg.format, "format", "", "output format when writing to stdout")
	fs.StringVar(&cfg.adjust, "adjust", "", "JSON file with adjustment settings")
	fs.StringVar(&cfg.presets, "presets", "", "JSON preset catalog")
	fs.StringVar(&cfg.preset, "preset", "", "preset ID to apply from -presets")
	fs.BoolVar(&cfg.list, "list", false, "list presets in the catalog and exit")
	fs.StringVar(&cfg.search, "search", "", "filter -list output by name")
	fs.Var(cfg.set, "set", "set one parameter, key=value (repeatable)")
	fs.IntVar(&cfg.maxSize, "max", 0, "render a preview no larger than this many pixels per side")
	fs.BoolVar(&cfg.compare, "compare", false, "write a before/after split view")
	fs.IntVar(&cfg.quality, "quality", imgio.DefaultQuality, "JPEG quality (1-100)")
	fs.Uint64Var(&cfg.seed, "seed", 0, "grain noise seed for reproducible output")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seeded = true
		}
	})

	if cfg.list {
		if cfg.presets == "" {
			return nil, fmt.Errorf("%w: -list needs -presets", errUsage)
		}
		return cfg, nil
	}
	if cfg.in == "" || cfg.out == "" {
		return nil, fmt.Errorf("%w: -in and -out are required", errUsage)
	}
	if cfg.preset != "" && cfg.presets == "" {
		return nil, fmt.Errorf("%w: -preset needs -presets", errUsage)
	}
	if cfg.out == "-" && cfg.format == "" {
		return nil, fmt.Errorf("%w: -out - needs -format", errUsage)
	}
	return cfg, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "grade:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	grade.SetLogger(logger)

	var catalog *preset.Catalog
	if cfg.presets != "" {
		if catalog, err = loadCatalog(cfg.presets); err != nil {
			return err
		}
	}
	if cfg.list {
		return listPresets(stdout, catalog, cfg.search)
	}

	img, format, err := imgio.Load(cfg.in)
	if err != nil {
		return err
	}
	logger.Debug("decoded input", "path", cfg.in, "format", format, "bounds", img.Bounds())

	var opts []grade.Option
	if cfg.seeded {
		opts = append(opts, grade.WithSeed(cfg.seed))
	}
	e := grade.New(opts...)
	e.Load(grade.FromImage(img))

	if err := configure(e, cfg, catalog); err != nil {
		return err
	}

	out, err := render(e, cfg)
	if err != nil {
		return err
	}
	return write(cfg, out, stdout)
}

func loadCatalog(path string) (*preset.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := preset.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func listPresets(w io.Writer, c *preset.Catalog, query string) error {
	for _, p := range c.Search(query) {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Category, p.Name); err != nil {
			return err
		}
	}
	return nil
}

// configure applies the settings file, then the preset, then -set pairs.
func configure(e *grade.Engine, cfg *config, catalog *preset.Catalog) error {
	if cfg.adjust != "" {
		data, err := os.ReadFile(cfg.adjust)
		if err != nil {
			return fmt.Errorf("read adjustments: %w", err)
		}
		s := grade.DefaultAdjustments()
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%s: %w", cfg.adjust, err)
		}
		if err := e.SetAdjustments(s); err != nil {
			return fmt.Errorf("%s: %w", cfg.adjust, err)
		}
	}

	if cfg.preset != "" {
		p, ok := catalog.Lookup(cfg.preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", cfg.preset)
		}
		if err := e.ApplyPreset(p, ""); err != nil {
			return err
		}
	}

	if len(cfg.set) > 0 {
		if err := e.ApplyFragment(grade.Fragment(cfg.set), "set"); err != nil {
			return err
		}
	}
	return nil
}

func render(e *grade.Engine, cfg *config) (*grade.ImageBuffer, error) {
	var (
		out *grade.ImageBuffer
		err error
	)
	before := e.Source()
	if cfg.maxSize > 0 {
		out, err = e.RenderPreview(cfg.maxSize, cfg.maxSize)
		before = grade.Downscale(before, cfg.maxSize, cfg.maxSize)
	} else {
		out, err = e.Render()
	}
	if err != nil {
		return nil, err
	}
	if cfg.compare {
		return grade.Compare(before, out)
	}
	return out, nil
}

func write(cfg *config, out *grade.ImageBuffer, stdout io.Writer) error {
	opts := imgio.Options{Quality: cfg.quality}
	if cfg.out != "-" {
		return imgio.Save(cfg.out, out.ToImage(), opts)
	}

	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("refusing to write image data to a terminal")
	}
	format, err := imgio.FormatFromPath("." + cfg.format)
	if err != nil {
		return err
	}
	return imgio.Encode(stdout, out.ToImage(), format, opts)
}
