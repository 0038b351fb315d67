package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/xiaobogaga/jackc/compiler/internal/driver"
)

var (
	path       = flag.String("path", ".", "the jack file, or the directory of jack files, to compile")
	configPath = flag.String("config", "", "the yaml config file, defaults to jackc.yaml in the source directory")
	emitXML    = flag.Bool("xml", false, "also write the parse tree of every class as xml")
	outDir     = flag.String("out", "", "the directory receiving the outputs, defaults to the source directory")
	pattern    = flag.String("pattern", driver.DefaultPattern, "the pattern selecting sources in a directory")
	verify     = flag.Bool("verify", false, "parse the generated vm code again before writing it")
	watch      = flag.Bool("watch", false, "keep running and recompile sources when they change")
	verbose    = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()
	stderr := termenv.NewOutput(os.Stderr)
	err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, stderr.String(fmt.Sprintf("Error: %v", err)).Foreground(termenv.ANSIRed))
		os.Exit(1)
	}
}

func run() error {
	fs := osfs.New("/")
	root, err := filepath.Abs(*path)
	if err != nil {
		return err
	}
	config, err := loadConfig(root)
	if err != nil {
		return err
	}
	logger, err := newLogger(config.LogLevel)
	if err != nil {
		return err
	}
	d := driver.New(fs, config, logger)
	results, err := d.Run()
	logger.Info().Int("compiled", len(results)).Msg("done")
	if !*watch {
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("initial compilation failed")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return d.Watch(ctx)
}

// loadConfig reads the config file, then lets the flags given on the command line
// override it.
func loadConfig(root string) (driver.Config, error) {
	file := *configPath
	if file == "" {
		dir := root
		info, err := os.Stat(root)
		if err == nil && !info.IsDir() {
			dir = filepath.Dir(root)
		}
		file = filepath.Join(dir, driver.DefaultConfigFile)
	}
	file, err := filepath.Abs(file)
	if err != nil {
		return driver.Config{}, err
	}
	config, found, err := driver.LoadConfig(osfs.New("/"), file)
	if err != nil {
		return driver.Config{}, err
	}
	if *configPath != "" && !found {
		return driver.Config{}, fmt.Errorf("config file %s not found", file)
	}
	if !found || config.Root == "" || config.Root == "." {
		config.Root = root
	} else if !filepath.IsAbs(config.Root) {
		config.Root = filepath.Join(filepath.Dir(file), config.Root)
	}
	if config.OutDir != "" && !filepath.IsAbs(config.OutDir) {
		config.OutDir = filepath.Join(filepath.Dir(file), config.OutDir)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "path":
			config.Root = root
		case "xml":
			config.EmitXML = *emitXML
		case "out":
			config.OutDir, _ = filepath.Abs(*outDir)
		case "pattern":
			config.Pattern = *pattern
		case "verify":
			config.Verify = *verify
		case "v":
			if *verbose {
				config.LogLevel = zerolog.DebugLevel.String()
			}
		}
	})
	return config, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Logger{}, err
		}
	}
	out := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.Kitchen
	})
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
