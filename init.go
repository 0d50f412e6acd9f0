package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// runInit implements the `intlextract init` subcommand, which writes a
// commented default intlextract.toml so a project can pin its extraction
// policy in version control.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("intlextract init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun, force bool
	fs.BoolVar(&dryRun, "dry-run", false, "print the config without writing the file")
	fs.BoolVar(&force, "force", false, "overwrite an existing config file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: intlextract init [flags] [directory]

Write a default intlextract.toml to the given directory (default "."). The
file holds defaults for the extraction flags; command-line flags override it.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	content := defaultConfigContent()

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	path := filepath.Join(dir, configFileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}

func defaultConfigContent() string {
	return `# intlextract configuration. Values here are defaults for the
# corresponding command-line flags; flags given on the command line win.

# Catalog locale (BCP 47), written to the ARB @@locale field.
locale = "en"

# Output file; empty means stdout.
output = ""

# Do not print extraction warnings (they are still counted).
suppress_warnings = false

# Exit with status 1 when any warning was recorded.
warnings_as_errors = false

# Allow plural/gender/select expressions inside a larger string.
allow_embedded_plural_gender = false

# Require an 'examples' attribute on messages with arguments.
require_examples = false

# Require a 'desc' attribute on every message.
require_description = false

# Record the original call text in the catalog metadata.
include_source_text = false

# Derive missing name/args attributes from the enclosing declaration.
generate_names = false
`
}
