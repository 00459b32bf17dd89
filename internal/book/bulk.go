package book

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/contact"
)

// SkippedLine records a bulk-load line that was not imported.
type SkippedLine struct {
	Line int
	Err  error
}

// ImportReport summarizes an Import run.
type ImportReport struct {
	Imported int
	Skipped  []SkippedLine
}

// Import reads bulk-load lines from r and inserts each parsed contact.
// Blank lines are ignored; malformed lines are skipped and reported. The
// phone number is stored as given. Import stops at the first store error.
func (b *Book) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	var report ImportReport

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			b.logger.Error("bulk read failed", zap.Int("line", lineNo+1), zap.Error(readErr))
			return report, fmt.Errorf("book: import: reading: %w", readErr)
		}
		if line != "" {
			lineNo++
			if err := b.importLine(ctx, lineNo, line, &report); err != nil {
				return report, err
			}
		}
		if readErr != nil {
			break
		}
	}

	b.logger.Info("bulk import complete",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// importLine parses and stores one bulk-load line, recording skips in report.
func (b *Book) importLine(ctx context.Context, lineNo int, line string, report *ImportReport) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	c, err := contact.ParseLine(line)
	if err != nil {
		b.logger.Warn("bulk line skipped", zap.Int("line", lineNo), zap.Error(err))
		report.Skipped = append(report.Skipped, SkippedLine{Line: lineNo, Err: err})
		return nil
	}

	if _, err := b.store.Insert(ctx, c); err != nil {
		b.logger.Error("bulk insert failed", zap.Int("line", lineNo), zap.Error(err))
		return fmt.Errorf("book: import line %d: %w", lineNo, err)
	}
	report.Imported++
	return nil
}

// Seed performs the first-initialization bulk load from name in fsys.
func (b *Book) Seed(ctx context.Context, fsys fs.FS, name string) (ImportReport, error) {
	f, err := fsys.Open(name)
	if err != nil {
		b.logger.Error("seed file unavailable", zap.String("file", name), zap.Error(err))
		return ImportReport{}, fmt.Errorf("book: seed: %w", err)
	}
	defer f.Close()

	b.logger.Info("initializing database", zap.String("file", name))
	return b.Import(ctx, f)
}

// ExportTo writes every contact to w in bulk-load format. Nothing is written
// if any contact fails contact.FormatLine.
func (b *Book) ExportTo(ctx context.Context, w io.Writer) (int, error) {
	cs, err := b.List(ctx)
	if err != nil {
		return 0, err
	}
	lines := make([]string, 0, len(cs))
	for _, c := range cs {
		line, err := contact.FormatLine(c)
		if err != nil {
			b.logger.Error("export contact rejected", zap.String("id", c.ID), zap.Error(err))
			return 0, fmt.Errorf("book: export contact %s: %w", c.ID, err)
		}
		lines = append(lines, line)
	}
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return 0, fmt.Errorf("book: export: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("book: export: %w", err)
	}
	return len(cs), nil
}

// Export writes every contact to path in bulk-load format, replacing the
// file atomically.
func (b *Book) Export(ctx context.Context, path string) (int, error) {
	var sb strings.Builder
	n, err := b.ExportTo(ctx, &sb)
	if err != nil {
		return 0, err
	}
	if err := atomic.WriteFile(path, strings.NewReader(sb.String())); err != nil {
		b.logger.Error("export failed", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("book: export %s: %w", path, err)
	}
	b.logger.Info("contacts exported", zap.String("path", path), zap.Int("contacts", n))
	return n, nil
}

// Err joins the skipped-line errors, or returns nil if nothing was skipped.
func (r ImportReport) Err() error {
	if len(r.Skipped) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		errs = append(errs, fmt.Errorf("line %d: %w", s.Line, s.Err))
	}
	return errors.Join(errs...)
}
