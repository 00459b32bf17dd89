package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/book"
	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
	"github.com/smileynet/phonebook/internal/store/file"
	"github.com/smileynet/phonebook/internal/store/mongo"
	"github.com/smileynet/phonebook/internal/store/sqlite"
	"github.com/smileynet/phonebook/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds the flags shared by every command.
type Globals struct {
	Config  string           `help:"Extra config file, applied after the user and project files." type:"path" placeholder:"FILE"`
	Backend string           `help:"Storage backend: mongo, sqlite or file." placeholder:"NAME"`
	Verbose bool             `help:"Enable debug logging." short:"v"`
	Version kong.VersionFlag `help:"Show version." short:"V"`

	out io.Writer
}

// CLI is the top-level command structure for phonebook.
type CLI struct {
	Globals

	Open   OpenCmd   `cmd:"" default:"1" help:"Open the phonebook window."`
	Add    AddCmd    `cmd:"" help:"Add a contact."`
	List   ListCmd   `cmd:"" help:"List every contact."`
	Search SearchCmd `cmd:"" help:"Search contacts by name, number or address."`
	Delete DeleteCmd `cmd:"" help:"Delete a contact by id."`
	Import ImportCmd `cmd:"" help:"Import contacts from a bulk-load file."`
	Export ExportCmd `cmd:"" help:"Export every contact to a bulk-load file."`
}

func (g *Globals) stdout() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

// loadConfig loads layered config from user, project and flag paths, then
// applies env and flag overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/phonebook/config.yaml"),
		"phonebook.yaml",
		g.Config,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.Backend != "" {
		cfg.Database.Backend = g.Backend
	}
	if g.Verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. While the window owns the terminal,
// logs go to log.file or nowhere.
func newLogger(l config.Log, window bool) (*zap.Logger, error) {
	if l.File == "" && window {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		zc.Level = level
	}
	if l.File != "" {
		zc.OutputPaths = []string{l.File}
		zc.ErrorOutputPaths = []string{l.File}
	} else {
		zc.Encoding = "console"
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}
	return zc.Build()
}

// newRegistry returns a registry with every built-in backend.
func newRegistry() *store.Registry {
	reg := store.NewRegistry()
	reg.Register(config.BackendMongo, mongo.Factory)
	reg.Register(config.BackendSQLite, sqlite.Factory)
	reg.Register(config.BackendFile, file.Factory)
	return reg
}

// session is an opened phonebook plus the settings and logger behind it.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	book   *book.Book
}

// openSession loads config, connects the configured backend, and runs the
// first-initialization load when seed.first_init is set.
func (g *Globals) openSession(ctx context.Context, window bool) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, window)
	if err != nil {
		return nil, err
	}

	openCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	defer cancel()
	s, err := newRegistry().Open(openCtx, cfg.Database, logger)
	if err != nil {
		logger.Error("open store failed", zap.String("backend", cfg.Database.Backend), zap.Error(err))
		return nil, err
	}

	sess := &session{
		cfg:    cfg,
		logger: logger,
		book:   book.New(s, book.WithLogger(logger)),
	}

	if cfg.Seed.FirstInit {
		fsys, name := phonebook.SeedFS(cfg.Seed.File)
		if _, err := sess.book.Seed(ctx, fsys, name); err != nil {
			sess.close()
			return nil, err
		}
	}
	return sess, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Database.Timeout)
	defer cancel()
	_ = s.book.Close(ctx)
	_ = s.logger.Sync()
}

// withSession opens a session for a one-shot command, runs fn, and closes it.
func (g *Globals) withSession(fn func(ctx context.Context, b *book.Book) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := g.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer sess.close()

	return fn(ctx, sess.book)
}

// OpenCmd launches the interactive window.
type OpenCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the window.
func (o *OpenCmd) Run(g *Globals) error {
	isTTY := isTerminal(os.Stdout.Fd())
	if !isTTY {
		return o.run(isTTY, nil)
	}

	sess, err := g.openSession(context.Background(), true)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer sess.close()

	m := ui.NewModel(sess.book, ui.WithTimeout(sess.cfg.Database.Timeout))
	prog := tea.NewProgram(m, tea.WithAltScreen())
	return o.run(isTTY, prog)
}

// isTerminal reports whether fd is a terminal, including Cygwin/MSYS ptys.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// run executes the tea program, enabling testable wiring. prog is not used
// when isTTY is false.
func (o *OpenCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("open: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// AddCmd adds one contact.
type AddCmd struct {
	First   string `arg:"" help:"First name."`
	Last    string `arg:"" help:"Last name."`
	Number  string `arg:"" help:"Phone number, 8 to 11 digits."`
	Address string `arg:"" optional:"" help:"Address."`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return a.run(ctx, g.stdout(), b)
	})
}

func (a *AddCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	c, err := b.Add(ctx, contact.Contact{
		FirstName: a.First,
		LastName:  a.Last,
		Number:    a.Number,
		Address:   a.Address,
	})
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	fmt.Fprintf(w, "Added %s %s (%s)\n", c.FirstName, c.LastName, c.ID)
	return nil
}

// ListCmd prints every contact.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return l.run(ctx, g.stdout(), b)
	})
}

func (l *ListCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	cs, err := b.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	printContacts(w, cs)
	return nil
}

// SearchCmd prints the contacts matching a term.
type SearchCmd struct {
	Term string `arg:"" help:"Text to look for in any field (case-sensitive)."`
}

// Run executes the search command.
func (s *SearchCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return s.run(ctx, g.stdout(), b)
	})
}

func (s *SearchCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	cs, err := b.Search(ctx, s.Term)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	printContacts(w, cs)
	return nil
}

// DeleteCmd removes one contact by id.
type DeleteCmd struct {
	ID string `arg:"" help:"Contact id as printed by list."`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return d.run(ctx, g.stdout(), b)
	})
}

func (d *DeleteCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	if err := b.Delete(ctx, d.ID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	fmt.Fprintf(w, "Deleted %s\n", d.ID)
	return nil
}

// ImportCmd loads a bulk-load file.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Bulk-load file: first,last,number[,address] per line."`
}

// Run executes the import command.
func (i *ImportCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return i.run(ctx, g.stdout(), b)
	})
}

func (i *ImportCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	f, err := os.Open(i.File)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	report, err := b.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(w, "Imported %d contacts", report.Imported)
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(w, ", skipped %d lines", n)
	}
	fmt.Fprintln(w)
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  line %d: %v\n", s.Line, s.Err)
	}
	return nil
}

// ExportCmd writes every contact to a bulk-load file.
type ExportCmd struct {
	File string `arg:"" type:"path" help:"Destination file."`
}

// Run executes the export command.
func (e *ExportCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, b *book.Book) error {
		return e.run(ctx, g.stdout(), b)
	})
}

func (e *ExportCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	n, err := b.Export(ctx, e.File)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(w, "Exported %d contacts to %s\n", n, e.File)
	return nil
}

// printContacts renders contacts as an aligned table with ids.
func printContacts(w io.Writer, cs []contact.Contact) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "First Name", "Last Name", "Number", "Address")
	for _, c := range cs {
		t.Row(c.ID, c.FirstName, c.LastName, c.Number, c.Address)
	}
	fmt.Fprintln(w, t.Render())
}

// Exit codes.
const (
	exitSuccess = 0
	exitInput   = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ve *contact.ValidationError
	if errors.As(err, &ve) {
		return exitInput
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return exitInput
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("phonebook"),
		kong.Description("A phonebook of contacts kept in MongoDB, SQLite or a JSON file."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
