package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"screengen"
	"screengen/internal/discovery"
	"screengen/internal/logging"
	"screengen/internal/reporter"
)

const (
	appName    = "screengen"
	appVersion = "0.3.0"
)

type rootFlags struct {
	source      string
	encodes     []string
	inputDir    string
	outputDir   string
	titles      []string
	frames      []int
	random      []int
	crop        []int
	trim        []int
	offset      int
	kernel      string
	loadFilter  string
	workers     int
	noFrameInfo bool
	jsonOutput  bool
	verbose     bool
	configPath  string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Prepare aligned comparison screenshots from video clips",
		Long: appName + ` loads a source clip and its test encodes, scales and crops
them onto shared dimensions, tone maps HDR material to SDR, and renders
tagged screenshots that interleave in comparison order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(flags)
		},
	}

	fs := rootCmd.Flags()
	fs.StringVarP(&flags.source, "source", "s", "", "source clip path")
	fs.StringSliceVarP(&flags.encodes, "encodes", "e", nil, "test encode paths")
	fs.StringVarP(&flags.inputDir, "input-directory", "i", "", "directory to discover clips in")
	fs.StringVarP(&flags.outputDir, "output-directory", "o", "", "screenshot output directory")
	fs.StringSliceVarP(&flags.titles, "titles", "t", nil, "clip titles, source first")
	fs.IntSliceVarP(&flags.frames, "frames", "f", nil, "explicit frame numbers")
	fs.IntSliceVarP(&flags.random, "random-frames", "r", nil, "random frame selection as start,stop,count")
	fs.IntSliceVar(&flags.crop, "crop", nil, "output dimensions as width,height")
	fs.IntSliceVar(&flags.trim, "trim", nil, "inclusive source frame window as start,end")
	fs.IntVar(&flags.offset, "offset", 0, "frame offset of the source relative to the encodes")
	fs.StringVar(&flags.kernel, "kernel", "", "resampling kernel (bilinear, bicubic, lanczos, spline16, spline36, spline64)")
	fs.StringVar(&flags.loadFilter, "load-filter", "", "source loader (ffms2, lsmas)")
	fs.IntVar(&flags.workers, "render-workers", 0, "frames rendered concurrently")
	fs.BoolVar(&flags.noFrameInfo, "no-frame-info", false, "disable title overlays on screenshots")
	fs.BoolVar(&flags.jsonOutput, "json", false, "emit machine-readable JSON events")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	fs.StringVarP(&flags.configPath, "config", "c", "", "configuration file path")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}

func runGenerate(flags *rootFlags) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, os.Stderr)
	log := logging.Global()

	settings, err := loadSettings(flags)
	if err != nil {
		return err
	}

	source, encodes, err := resolveInputs(flags)
	if err != nil {
		return err
	}

	outDir, err := discovery.OutputDir(outputRoot(flags, source, encodes), flags.outputDir, flags.offset, log)
	if err != nil {
		return err
	}

	req := screengen.Request{
		Source:    source,
		Encodes:   encodes,
		Titles:    defaultTitles(flags.titles, source, encodes),
		Frames:    flags.frames,
		Offset:    flags.offset,
		OutputDir: outDir,
		Overlay:   !flags.noFrameInfo,
	}

	switch len(flags.crop) {
	case 0:
	case 2:
		req.Crop = &screengen.Dimensions{Width: flags.crop[0], Height: flags.crop[1]}
	default:
		return fmt.Errorf("--crop takes exactly two values, width and height")
	}
	switch len(flags.random) {
	case 0:
	case 3:
		req.Random = &screengen.RandomRange{
			Start: flags.random[0],
			Stop:  flags.random[1],
			Count: flags.random[2],
		}
	default:
		return fmt.Errorf("--random-frames takes exactly three values: start, stop, count")
	}
	switch len(flags.trim) {
	case 0:
	case 2:
		req.Trim = &screengen.TrimRange{Start: flags.trim[0], End: flags.trim[1]}
	default:
		return fmt.Errorf("--trim takes exactly two values, start and end")
	}

	var rep reporter.Reporter = reporter.NewTerminalReporter(flags.verbose)
	if flags.jsonOutput {
		rep = reporter.NewJSONReporter()
	}

	session, err := screengen.New(
		screengen.WithConfig(settings),
		screengen.WithReporter(rep),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = session.Generate(ctx, req)
	return err
}

func loadSettings(flags *rootFlags) (screengen.Settings, error) {
	settings := screengen.DefaultSettings()
	if flags.configPath != "" {
		loaded, err := screengen.LoadConfig(flags.configPath)
		if err != nil {
			return screengen.Settings{}, err
		}
		settings = loaded
	}
	if flags.kernel != "" {
		settings.Kernel = flags.kernel
	}
	if flags.loadFilter != "" {
		settings.LoadFilter = flags.loadFilter
	}
	if flags.workers > 0 {
		settings.RenderWorkers = flags.workers
	}
	return settings, nil
}

// resolveInputs turns the explicit path flags or the input directory into
// a source path and encode paths. Discovery treats the largest file in
// the directory as the source unless one is named.
func resolveInputs(flags *rootFlags) (string, []string, error) {
	if flags.inputDir == "" {
		return flags.source, flags.encodes, nil
	}

	source := flags.source
	if source == "" {
		guessed, err := discovery.GuessSource(flags.inputDir)
		if err != nil {
			return "", nil, err
		}
		source = guessed
	}

	encodes := flags.encodes
	if len(encodes) == 0 {
		found, err := discovery.FindEncodes(flags.inputDir, discovery.Stem(source))
		if err != nil {
			return "", nil, err
		}
		encodes = found
	}
	return source, encodes, nil
}
