package command

import (
	"flag"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evolvingstuff/vdw-server/internal/config"
	"github.com/evolvingstuff/vdw-server/internal/editor"
	"github.com/evolvingstuff/vdw-server/internal/locator"
)

// EditCommand opens the record editor for an admin page path.
type EditCommand struct {
	*BaseCommand
	cfg      *config.Config
	page     string
	logPath  string
	logLevel string
}

// NewEditCommand creates the edit command.
func NewEditCommand(cfg *config.Config) *EditCommand {
	return &EditCommand{
		BaseCommand: NewBaseCommand(
			"edit",
			"Open the guarded record editor for an admin page",
			"edit [options] [page-path]",
		),
		cfg: cfg,
	}
}

// SetupFlags configures the flags for the edit command.
func (c *EditCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.page, "page", "", "Admin page path to edit (e.g. /admin/pages/page/42/change/)")
	fs.StringVar(&c.logPath, "log-file", "", "Write JSON logs to this file")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// Execute resolves the page, opens the draft store, and runs the editor.
func (c *EditCommand) Execute(args []string, stdout, stderr io.Writer) error {
	page := c.page
	if page == "" && len(args) > 0 {
		page = args[0]
	}
	if page == "" {
		if v, ok := c.cfg.GetCommandOption("edit", "page"); ok && v != "" {
			page = v
		}
	}
	if page == "" {
		return fmt.Errorf("edit requires a page path (use -page or a positional argument)")
	}

	loc := locator.Locator{Prefix: c.cfg.Guard.AdminPrefix}
	ref, ok := loc.Locate(page)
	if !ok {
		return fmt.Errorf("not an editable record page: %s", page)
	}

	lc, err := resolveLogConfig(c.logPath, c.logLevel, c.cfg)
	if err != nil {
		return err
	}
	if lc.logFile != nil {
		defer func() { _ = lc.logFile.Close() }()
	}
	logger := newLogger(lc, stderr)

	store, closeStore, err := openStore(c.cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	stopCleanup := maybeStartCleanupScheduler(c.cfg, ref.Key())
	defer stopCleanup()

	rec := editor.SampleRecord()
	if ref.View == locator.ViewCreate {
		blank := editor.Record{AvailableTags: append(rec.AvailableTags, rec.Tags...)}
		rec = blank
	}

	// A configured autosaveSeconds of 0 disables the periodic timer;
	// the session treats a zero duration as "use the default".
	autosave := time.Duration(c.cfg.Guard.AutosaveSeconds) * time.Second
	if c.cfg.Guard.AutosaveSeconds == 0 {
		autosave = -1
	}

	model, err := editor.New(editor.Options{
		Ref:              ref,
		Store:            store,
		Record:           rec,
		Debounce:         time.Duration(c.cfg.Guard.DebounceMillis) * time.Millisecond,
		AutosaveInterval: autosave,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	defer model.Session().Stop()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}
