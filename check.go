package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/cmmc/lib/analyzer"
	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/logging"
	"github.com/vyPal/cmmc/lib/project"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "check",
		Usage:     "Run name analysis over C-- AST documents",
		Category:  "analysis",
		ArgsUsage: "[files or directories...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "The path to the project config or its directory",
			},
			&cli.BoolFlag{
				Name:    "dump-symbols",
				Aliases: []string{"d"},
				Usage:   "Print the global scope and struct tables of each file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text or json",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:    "max-errors",
				Aliases: []string{"m"},
				Usage:   "Stop printing diagnostics for a file after this many (0 for no limit)",
			},
			&cli.BoolFlag{
				Name:    "warn-shadow",
				Aliases: []string{"w"},
				Usage:   "Warn when a local declaration hides an outer one",
			},
		}, outputFlags...),
		Action: check,
	}, &cli.Command{
		Name:      "unparse",
		Usage:     "Print an AST document as C-- source",
		Category:  "analysis",
		ArgsUsage: "<file>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the source to a file instead of stdout",
			},
		}, outputFlags...),
		Action: unparse,
	})
}

type checkSettings struct {
	maxErrors   int
	warnShadow  bool
	dumpSymbols bool
}

// checkedFile is the outcome for one document. err is set when the document
// could not be loaded or the analysis itself broke down.
type checkedFile struct {
	path   string
	result *analyzer.Result
	err    error
}

func check(c *cli.Context) error {
	setupOutput(c)

	format := c.String("format")
	if format != "text" && format != "json" {
		return cli.Exit(color.RedString("Error: unknown format %q", format), 1)
	}

	settings := checkSettings{}
	paths := c.Args().Slice()

	conf, confPath, err := loadConfig(c.String("config"))
	switch {
	case err == nil:
		logging.Debugf("using config %s", confPath)
		if err := conf.CheckToolVersion(version); err != nil {
			return cli.Exit(color.RedString("Error: %s", err), 1)
		}
		settings = checkSettings{
			maxErrors:   conf.Analysis.MaxErrors,
			warnShadow:  conf.Analysis.WarnShadow,
			dumpSymbols: conf.Analysis.DumpSymbols,
		}
		if len(paths) == 0 {
			paths = []string{filepath.Join(filepath.Dir(confPath), conf.SourceDir)}
		}
	case errors.Is(err, project.ErrNoConfig):
		if len(paths) == 0 {
			return cli.Exit(color.RedString("Error: no input files and no project config"), 1)
		}
	default:
		return cli.Exit(color.RedString("Error loading config: %s", err), 1)
	}

	if c.IsSet("max-errors") {
		settings.maxErrors = c.Int("max-errors")
	}
	if c.IsSet("warn-shadow") {
		settings.warnShadow = c.Bool("warn-shadow")
	}
	if c.IsSet("dump-symbols") {
		settings.dumpSymbols = c.Bool("dump-symbols")
	}

	files, err := collectFiles(paths)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}
	if len(files) == 0 {
		return cli.Exit(color.RedString("Error: no AST documents found"), 1)
	}
	logging.Debugf("checking %d file(s)", len(files))

	var opts []analyzer.Option
	if settings.warnShadow {
		opts = append(opts, analyzer.WithShadowWarnings())
	}
	checked := checkFiles(files, opts...)

	var errCount int
	if format == "json" {
		errCount, err = reportJSON(os.Stdout, checked, settings)
	} else {
		errCount, err = reportText(os.Stdout, checked, settings)
	}
	if err != nil {
		return err
	}

	if errCount > 0 {
		return cli.Exit(color.RedString("%d error(s) reported", errCount), 1)
	}
	return nil
}

// loadConfig finds the project config from a --config value, which may name
// the file itself or its directory. An empty value means the working
// directory.
func loadConfig(flag string) (*project.Config, string, error) {
	dir := flag
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		dir = cwd
	} else if info, err := os.Stat(flag); err == nil && !info.IsDir() {
		dir = filepath.Dir(flag)
	}
	return project.Load(dir)
}

// collectFiles expands directories into the AST documents they contain,
// keeping the order paths were given in and dropping repeats.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	var walk func(path string, explicit bool) error
	walk = func(path string, explicit bool) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			dir, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			for _, entry := range dir {
				if err := walk(filepath.Join(path, entry.Name()), false); err != nil {
					return err
				}
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !explicit && ext != ".yaml" && ext != ".yml" && ext != ".json" {
			return nil
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	}

	for _, path := range paths {
		if err := walk(filepath.Clean(path), true); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// checkFiles analyzes every document in its own goroutine. Each analysis
// owns its table, so nothing is shared but the results slice.
func checkFiles(files []string, opts ...analyzer.Option) []*checkedFile {
	results := make([]*checkedFile, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			out := &checkedFile{path: path}

			prog, err := ast.LoadFile(path)
			if err != nil {
				out.err = err
			} else {
				out.result, out.err = analyzer.Analyze(prog, opts...)
			}

			mu.Lock()
			results[i] = out
			mu.Unlock()
		}(i, path)
	}

	wg.Wait()
	return results
}

func reportText(w io.Writer, checked []*checkedFile, settings checkSettings) (int, error) {
	errCount, warnCount := 0, 0
	for _, f := range checked {
		if f.err != nil {
			logging.PrintErrorMessage("Load Error", f.err)
			errCount++
			continue
		}

		diags := f.result.Diagnostics
		if _, err := diags.Print(w, settings.maxErrors); err != nil {
			return errCount, err
		}
		errCount += diags.ErrorCount()
		warnCount += diags.WarningCount()

		if settings.dumpSymbols {
			fmt.Fprintf(w, "== %s ==\n%s", f.path, f.result.Dump())
		}
	}

	logging.PrintInfoMessage("Checked", fmt.Sprintf("%d file(s), %d error(s), %d warning(s)", len(checked), errCount, warnCount))
	return errCount, nil
}

type jsonReport struct {
	File        string                  `json:"file"`
	Error       string                  `json:"error,omitempty"`
	Diagnostics *diagnostic.Diagnostics `json:"diagnostics,omitempty"`
	Symbols     string                  `json:"symbols,omitempty"`
}

func reportJSON(w io.Writer, checked []*checkedFile, settings checkSettings) (int, error) {
	errCount := 0
	reports := make([]jsonReport, len(checked))
	for i, f := range checked {
		reports[i].File = f.path
		if f.err != nil {
			reports[i].Error = f.err.Error()
			errCount++
			continue
		}
		reports[i].Diagnostics = f.result.Diagnostics
		errCount += f.result.Diagnostics.ErrorCount()
		if settings.dumpSymbols {
			reports[i].Symbols = f.result.Dump()
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return errCount, cli.Exit(color.RedString("Error encoding report: %s", err), 1)
	}
	return errCount, nil
}

func unparse(c *cli.Context) error {
	setupOutput(c)

	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("Error: No file specified"), 1)
	}

	prog, err := ast.LoadFile(path)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	out := io.Writer(os.Stdout)
	if o := c.String("output"); o != "" {
		file, err := os.Create(o)
		if err != nil {
			return cli.Exit(color.RedString("Error creating output file: %s", err), 1)
		}
		defer file.Close()
		out = file
	}

	if err := ast.Unparse(out, prog); err != nil {
		return cli.Exit(color.RedString("Error writing source: %s", err), 1)
	}
	return nil
}
