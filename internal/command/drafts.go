package command

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/config"
	"github.com/evolvingstuff/vdw-server/internal/draft"
)

// DraftsCommand manages persisted drafts on disk.
//
// stdin is stored on the command instance so tests can inject a custom
// reader for confirmation prompts without relying on package-global
// mutable state.
type DraftsCommand struct {
	*BaseCommand
	cfg   *config.Config
	dry   bool
	yes   bool
	stdin io.Reader
}

// NewDraftsCommand creates the draft management command.
func NewDraftsCommand(cfg *config.Config) *DraftsCommand {
	return &DraftsCommand{
		BaseCommand: NewBaseCommand("drafts", "Manage persisted form drafts", "drafts [list|clean|purge|delete|info|path]"),
		cfg:         cfg,
		stdin:       os.Stdin,
	}
}

func (c *DraftsCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dry, "dry-run", false, "Don't actually delete; show what would be deleted")
	fs.BoolVar(&c.yes, "y", false, "Assume yes to confirmation prompts")
}

// draftDir resolves the directory the subcommands operate on. Draft
// management is an fs-backend concern; memory and sqlite backends keep
// their own lifecycle (process-scoped, or pruned via SQL).
func (c *DraftsCommand) draftDir() (string, error) {
	return resolveDraftDir(c.cfg)
}

func (c *DraftsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return c.list(stdout, "text")
	}
	sub := strings.ToLower(args[0])
	// Allow subcommands to parse their own flags (e.g. -h, -y) by handing
	// off the remainder of args after the subcommand name into a new
	// FlagSet local to that subcommand. Do NOT inspect args manually for
	// help tokens - rely on the flag package to handle help behavior.
	switch sub {
	case "list":
		fs := flag.NewFlagSet("drafts-list", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		var formatLocal string
		fs.StringVar(&formatLocal, "format", "text", "output format: text|json")
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s list\n\n", c.Name())
			fmt.Fprintln(stderr, "Show all persisted drafts with metadata, newest first.")
			fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		return c.list(stdout, formatLocal)
	case "clean":
		fs := flag.NewFlagSet("drafts-clean", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		var yesLocal bool
		fs.BoolVar(&yesLocal, "y", false, "Assume yes to confirmation prompts")
		// Register dry-run locally so `clean -dry-run` works correctly.
		// Uses the same struct field pointer, so it updates c.dry directly.
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s clean\n\n", c.Name())
			fmt.Fprintln(stderr, "Run automatic cleanup based on configured retention policies.")
			fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		if !c.dry && !c.yes && !yesLocal {
			ok, err := c.confirm(stdout, "This will permanently remove drafts according to your configured policies. Proceed? (y/N): ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(stdout, "aborted")
				return nil
			}
		}
		return c.runCleanup(stdout, false)
	case "purge":
		fs := flag.NewFlagSet("drafts-purge", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		var yesLocal bool
		fs.BoolVar(&yesLocal, "y", false, "Assume yes to confirmation prompts")
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s purge\n\n", c.Name())
			fmt.Fprintln(stderr, "Permanently purge all drafts (ignores configured retention policies).")
			fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		if !c.dry && !c.yes && !yesLocal {
			ok, err := c.confirm(stdout, "This will permanently purge all drafts (ignoring retention). Proceed? (y/N): ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(stdout, "aborted")
				return nil
			}
		}
		return c.runCleanup(stdout, true)
	case "delete":
		fs := flag.NewFlagSet("drafts-delete", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		var yesLocal bool
		fs.BoolVar(&yesLocal, "y", false, "Assume yes to confirmation prompts")
		var dryLocal bool
		fs.BoolVar(&dryLocal, "dry-run", false, "Don't actually delete; show what would be deleted")
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s delete <draft-key>...\n\n", c.Name())
			fmt.Fprintln(stderr, "Remove specific drafts from storage. This is irreversible.")
			fmt.Fprintln(stderr, "Options:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		c.yes = c.yes || yesLocal
		c.dry = c.dry || dryLocal

		rem := fs.Args()
		if len(rem) < 1 {
			return fmt.Errorf("delete requires a draft key")
		}
		if !c.dry && !c.yes {
			var prompt string
			if len(rem) > 1 {
				prompt = fmt.Sprintf("Are you sure you want to delete %d drafts? This is irreversible. (y/N): ", len(rem))
			} else {
				prompt = fmt.Sprintf("Are you sure you want to delete draft '%s'? This is irreversible. (y/N): ", rem[0])
			}
			ok, err := c.confirm(stdout, prompt)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(stdout, "aborted")
				return nil
			}
		}
		var failed []string
		for _, raw := range rem {
			if err := c.delete(stdout, raw); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", raw, err))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to delete: %s", strings.Join(failed, "; "))
		}
		return nil
	case "info":
		fs := flag.NewFlagSet("drafts-info", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s info <draft-key>\n\n", c.Name())
			fmt.Fprintln(stderr, "Show the raw data for a specific draft.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		rem := fs.Args()
		if len(rem) < 1 {
			return fmt.Errorf("info requires a draft key")
		}
		return c.info(stdout, rem[0])
	case "path":
		fs := flag.NewFlagSet("drafts-path", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.Usage = func() {
			_, _ = fmt.Fprintf(stderr, "Usage: %s path [draft-key]\n\n", c.Name())
			fmt.Fprintln(stderr, "Show the drafts directory or a specific draft file path.")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return nil
			}
			return err
		}
		dir, err := c.draftDir()
		if err != nil {
			return err
		}
		rem := fs.Args()
		if len(rem) == 0 {
			fmt.Fprintln(stdout, dir)
			return nil
		}
		key, err := draft.ParseKey(rem[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, draft.FilePath(dir, key))
		return nil
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// confirm prompts for a y/N answer on the command's stdin reader.
func (c *DraftsCommand) confirm(stdout io.Writer, prompt string) (bool, error) {
	br := bufio.NewReader(c.stdin)
	fmt.Fprint(stdout, prompt)
	t, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	t = strings.TrimSpace(t)
	return strings.EqualFold(t, "y") || strings.EqualFold(t, "yes"), nil
}

func (c *DraftsCommand) list(w io.Writer, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %q", format)
	}

	dir, err := c.draftDir()
	if err != nil {
		return err
	}
	infos, err := draft.ScanDrafts(dir)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if infos == nil {
			infos = []draft.Info{}
		}
		return enc.Encode(infos)
	}

	// text format: if no drafts, show friendly message
	if len(infos) == 0 {
		fmt.Fprintln(w, "No drafts found")
		return nil
	}

	for _, di := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d bytes\n", di.Key.String(), di.UpdatedAt.Format(time.RFC3339), di.Size)
	}
	return nil
}

func (c *DraftsCommand) runCleanup(w io.Writer, purge bool) error {
	dir, err := c.draftDir()
	if err != nil {
		return err
	}
	dc := c.cfg.Drafts
	cleaner := &draft.Cleaner{Dir: dir, MaxAgeDays: dc.MaxAgeDays, MaxCount: dc.MaxCount, DryRun: c.dry, Purge: purge}

	report, err := cleaner.ExecuteCleanup(draft.Key{})
	if err != nil {
		return err
	}

	if c.dry {
		if purge {
			fmt.Fprintln(w, "Dry-run: the following would be purged:")
		} else {
			fmt.Fprintln(w, "Dry-run: the following would be removed:")
		}
		for _, key := range report.Removed {
			fmt.Fprintln(w, key.String())
		}
		return nil
	}

	for _, key := range report.Removed {
		if purge {
			fmt.Fprintln(w, "purged:", key.String())
		} else {
			fmt.Fprintln(w, "removed:", key.String())
		}
	}
	for _, key := range report.Skipped {
		fmt.Fprintln(w, "skipped:", key.String())
	}
	return nil
}

func (c *DraftsCommand) delete(w io.Writer, raw string) error {
	key, err := draft.ParseKey(raw)
	if err != nil {
		return err
	}
	if c.dry {
		_, _ = fmt.Fprintf(w, "Dry-run: would delete draft %s\n", key.String())
		return nil
	}
	dir, err := c.draftDir()
	if err != nil {
		return err
	}
	if err := os.Remove(draft.FilePath(dir, key)); err != nil {
		return err
	}
	fmt.Fprintln(w, "deleted", key.String())
	return nil
}

func (c *DraftsCommand) info(w io.Writer, raw string) error {
	key, err := draft.ParseKey(raw)
	if err != nil {
		return err
	}
	dir, err := c.draftDir()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(draft.FilePath(dir, key))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
