package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"github.com/xiaobogaga/jackc/compiler/internal/codegen"
	"github.com/xiaobogaga/jackc/compiler/internal/lexer"
	"github.com/xiaobogaga/jackc/compiler/internal/parser"
	"github.com/xiaobogaga/jackc/compiler/internal/vm"
	"github.com/xiaobogaga/jackc/compiler/internal/xmldump"
)

const (
	sourceExt = ".jack"
	vmExt     = ".vm"
	xmlExt    = ".xml"
)

// Unit is one compiled class.
type Unit struct {
	Class   string
	Program vm.Program
	// XML is the parse tree dump, only filled when asked for.
	XML string
}

// CompileSource runs the whole pipeline on the source of one class: tokenize, parse and
// generate code with a fresh generator. name is only used in error messages.
func CompileSource(name string, src []byte, emitXML bool) (Unit, error) {
	tokens, err := lexer.TokenizeString(string(src))
	if err != nil {
		return Unit{}, fmt.Errorf("%s: %w", name, err)
	}
	class, err := parser.Parse(tokens)
	if err != nil {
		return Unit{}, fmt.Errorf("%s: %w", name, err)
	}
	program, err := codegen.New().Compile(class)
	if err != nil {
		return Unit{}, fmt.Errorf("%s: %w", name, err)
	}
	unit := Unit{Class: class.Name, Program: program}
	if emitXML {
		unit.XML = xmldump.String(class)
	}
	return unit, nil
}

// Result describes a compiled source file and where its outputs went.
type Result struct {
	Source   string
	Class    string
	Commands int
	VMPath   string
	XMLPath  string
}

// Driver compiles the jack files of a file system. Paths are the file system's own.
type Driver struct {
	fs     billy.Filesystem
	config Config
	logger zerolog.Logger
}

func New(fs billy.Filesystem, config Config, logger zerolog.Logger) *Driver {
	if config.Root == "" {
		config.Root = "."
	}
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	return &Driver{fs: fs, config: config, logger: logger}
}

// Discover lists the sources to compile in natural order, so Square2.jack comes before
// Square10.jack. A root which is a file is returned as is.
func (d *Driver) Discover() ([]string, error) {
	info, err := d.fs.Stat(d.config.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filepath.Ext(d.config.Root) != sourceExt {
			return nil, fmt.Errorf("%s is not a %s file", d.config.Root, sourceExt)
		}
		return []string{d.config.Root}, nil
	}
	if !doublestar.ValidatePattern(d.config.Pattern) {
		return nil, fmt.Errorf("invalid source pattern %q", d.config.Pattern)
	}
	var sources []string
	err = util.Walk(d.fs, d.config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !d.matches(path) {
			return nil
		}
		d.logger.Debug().Str("source", path).Msg("discovered")
		sources = append(sources, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sources, func(i, j int) bool {
		return natural.Less(sources[i], sources[j])
	})
	return sources, nil
}

// matches tells whether path, below the root, is selected by the pattern.
func (d *Driver) matches(path string) bool {
	rel, err := filepath.Rel(d.config.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, err := doublestar.Match(d.config.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (d *Driver) outputPath(source, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	dir := filepath.Dir(source)
	if d.config.OutDir != "" {
		dir = d.config.OutDir
	}
	return filepath.Join(dir, stem+ext)
}

// CompileFile compiles one source and writes its outputs. Nothing is written when the
// compilation fails.
func (d *Driver) CompileFile(source string) (Result, error) {
	src, err := util.ReadFile(d.fs, source)
	if err != nil {
		return Result{}, err
	}
	unit, err := CompileSource(source, src, d.config.EmitXML)
	if err != nil {
		return Result{}, err
	}
	text := unit.Program.String() + "\n"
	if d.config.Verify {
		parsed, err := vm.ParseProgram(strings.NewReader(text))
		if err != nil {
			return Result{}, fmt.Errorf("%s: generated invalid vm code: %w", source, err)
		}
		if len(parsed) != len(unit.Program) {
			return Result{}, fmt.Errorf("%s: generated %d vm commands but read back %d", source, len(unit.Program), len(parsed))
		}
	}
	result := Result{
		Source:   source,
		Class:    unit.Class,
		Commands: len(unit.Program),
		VMPath:   d.outputPath(source, vmExt),
	}
	if d.config.EmitXML {
		result.XMLPath = d.outputPath(source, xmlExt)
	}
	if d.config.OutDir != "" {
		err = d.fs.MkdirAll(d.config.OutDir, 0755)
		if err != nil {
			return Result{}, err
		}
	}
	err = util.WriteFile(d.fs, result.VMPath, []byte(text), 0644)
	if err != nil {
		return Result{}, err
	}
	if d.config.EmitXML {
		err = util.WriteFile(d.fs, result.XMLPath, []byte(unit.XML), 0644)
		if err != nil {
			return Result{}, err
		}
	}
	d.logger.Info().
		Str("source", source).
		Str("class", result.Class).
		Int("commands", result.Commands).
		Str("output", result.VMPath).
		Msg("compiled")
	return result, nil
}

// Run compiles every discovered source. A failing file doesn't stop the others, all the
// failures are returned together.
func (d *Driver) Run() ([]Result, error) {
	sources, err := d.Discover()
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		d.logger.Warn().Str("root", d.config.Root).Str("pattern", d.config.Pattern).Msg("no source found")
	}
	var results []Result
	var errs []error
	for _, source := range sources {
		result, err := d.CompileFile(source)
		if err != nil {
			d.logger.Error().Err(err).Str("source", source).Msg("compilation failed")
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}
