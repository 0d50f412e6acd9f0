// intlextract extracts Intl.message/plural/gender/select calls from
// JavaScript and TypeScript sources into an ARB message catalog.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/language"

	"github.com/phobologic/intlextract/internal/catalog"
	"github.com/phobologic/intlextract/internal/discover"
	"github.com/phobologic/intlextract/internal/extract"
	"github.com/phobologic/intlextract/internal/lang"
	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	fileCfg, _, err := loadConfig(cwd)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("intlextract", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfg         extract.Config
		langs       string
		locale      string
		output      string
		maxFileSize int
		showVersion bool
	)

	fs.BoolVar(&cfg.SuppressWarnings, "suppress-warnings", fileCfg.SuppressWarnings, "do not print extraction warnings")
	fs.BoolVar(&cfg.WarningsAreErrors, "warnings-as-errors", fileCfg.WarningsAreErrors, "exit with status 1 when any warning was recorded")
	fs.BoolVar(&cfg.AllowEmbeddedPluralGender, "allow-embedded-plural-gender", fileCfg.AllowEmbeddedPluralGender, "allow plural/gender/select inside a larger string")
	fs.BoolVar(&cfg.RequireExamples, "require-examples", fileCfg.RequireExamples, "require an 'examples' attribute on messages with arguments")
	fs.BoolVar(&cfg.RequireDescription, "require-description", fileCfg.RequireDescription, "require a 'desc' attribute on every message")
	fs.BoolVar(&cfg.IncludeSourceText, "include-source-text", fileCfg.IncludeSourceText, "record the original call text in the catalog metadata")
	fs.BoolVar(&cfg.GenerateNames, "generate-names", fileCfg.GenerateNames, "derive missing name/args attributes from the enclosing declaration")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.StringVar(&locale, "locale", fileCfg.Locale, "catalog locale (BCP 47)")
	fs.StringVar(&output, "o", fileCfg.Output, "output file (default stdout)")
	fs.StringVar(&output, "output", fileCfg.Output, "output file (default stdout)")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "intlextract %s\n", version)
		return nil
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			name = strings.TrimSpace(name)
			if _, ok := lang.Languages[name]; !ok {
				return fmt.Errorf("unsupported language %q", name)
			}
			langFilter = append(langFilter, name)
		}
	}

	// Discover files
	files, err := discover.Files(root, langFilter)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no extractable files found")
	}

	// Filter by size
	files = filterBySize(root, files, maxFileSize, stderr)
	if len(files) == 0 {
		return fmt.Errorf("no extractable files found (all exceeded size limit)")
	}

	// Extract files concurrently, then report in input order so warnings
	// and duplicate resolution stay deterministic.
	results := extractFilesConcurrent(root, files, cfg)

	cat := catalog.New(tag.String())
	warningCount := 0
	for _, r := range results {
		for _, w := range r.warnings {
			warningCount++
			if !cfg.SuppressWarnings {
				_, _ = fmt.Fprintf(stderr, "Warning: %s\n", w)
			}
		}
		cat.Merge(r.records, func(reason string) {
			warningCount++
			if !cfg.SuppressWarnings {
				_, _ = fmt.Fprintf(stderr, "Warning: %s\n", reason)
			}
		})
	}

	out := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := cat.WriteARB(out); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	if cfg.WarningsAreErrors && warningCount > 0 {
		return fmt.Errorf("%d extraction warnings treated as errors", warningCount)
	}
	return nil
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, stderr io.Writer) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f.Path, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

type fileResult struct {
	records  map[string]*message.Message
	warnings []string
}

func extractFilesConcurrent(root string, files []discover.FileEntry, cfg extract.Config) []fileResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parsers
			parsers := make(map[string]*sitter.Parser)

			for idx := range work {
				f := files[idx]
				p, ok := parsers[f.Language]
				if !ok {
					p = lang.Languages[f.Language].NewParser()
					parsers[f.Language] = p
				}

				absPath := filepath.Join(root, f.Path)
				source, err := os.ReadFile(absPath)
				if err != nil {
					results[idx].warnings = []string{fmt.Sprintf("%s: %v", f.Path, err)}
					continue
				}

				tree, diags, err := parse.Parse(p, source)
				if err != nil {
					results[idx].warnings = []string{fmt.Sprintf("%s: %v", f.Path, err)}
					continue
				}
				if len(diags) > 0 {
					// A unit that fails to parse yields no messages at all.
					var ws []string
					for _, d := range diags {
						ws = append(ws, fmt.Sprintf("%s:%s; skipping file", f.Path, d))
					}
					results[idx].warnings = ws
					tree.Close()
					continue
				}

				records, warnings := extract.Extract(tree, source, f.Path, cfg, nil)
				tree.Close()

				var ws []string
				for _, w := range warnings {
					ws = append(ws, w.String())
				}
				results[idx] = fileResult{records: records, warnings: ws}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-locale": true, "--locale": true,
	"-o": true, "--o": true,
	"-output": true, "--output": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
