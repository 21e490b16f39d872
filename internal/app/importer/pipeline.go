package importer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wiktapi/internal/app/importer/wiktionary"
	"github.com/heartmarshall/wiktapi/internal/domain"
)

// maxLineSize bounds a single JSONL line; some wiktextract entries exceed 1 MB.
const maxLineSize = 16 << 20

// FileResult holds the outcome of importing one source.
// After a completed import Lines == Skipped + Merged + Inserted; in a dry
// run Inserted stays 0 and Rows tells how many rows would be written.
type FileResult struct {
	Path    string
	Edition string
	Lines   int // non-blank lines read
	Skipped int // lines rejected by the normalizer or over the size limit
	Merged  int // lines folded into an earlier row of the same word and part of speech
	Rows    int // rows produced for writing
	// Inserted counts rows left in the store: rows committed minus rows the
	// post-import pass folded away.
	Inserted   int
	Reconciled int // rows whose shared columns the post-import pass rewrote
	Batches    int
	Duration   time.Duration
}

// Result holds the outcome of a whole import run.
type Result struct {
	Inserted int
	Skipped  int
	Merged   int
	Rows     int
	Files    []FileResult
}

func (r *Result) add(fr FileResult) {
	r.Inserted += fr.Inserted
	r.Skipped += fr.Skipped
	r.Merged += fr.Merged
	r.Rows += fr.Rows
	r.Files = append(r.Files, fr)
}

// Importer streams dump files through the normalizer into the store.
type Importer struct {
	log        *slog.Logger
	cfg        Config
	normalizer *wiktionary.Normalizer
	tx         TxManager
	writer     WordWriter
	schema     SchemaManager
	maxLine    int
}

// NewImporter creates a new Importer.
func NewImporter(
	log *slog.Logger,
	cfg Config,
	normalizer *wiktionary.Normalizer,
	tx TxManager,
	writer WordWriter,
	schema SchemaManager,
) *Importer {
	return &Importer{
		log:        log.With("service", "importer"),
		cfg:        cfg,
		normalizer: normalizer,
		tx:         tx,
		writer:     writer,
		schema:     schema,
		maxLine:    maxLineSize,
	}
}

// Run imports every discovered source sequentially. Batches committed before
// a failure stay in the store; the run stops at the first failing batch.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	var res Result

	sources, err := DiscoverSources(im.cfg.InputDir, im.cfg.Edition)
	if err != nil {
		return res, err
	}

	if !im.cfg.DryRun {
		if im.cfg.Fresh {
			im.log.Info("dropping existing words table")
			if err := im.schema.Reset(ctx); err != nil {
				return res, err
			}
		}
		if err := im.schema.EnsureTable(ctx); err != nil {
			return res, err
		}
	}

	for _, src := range sources {
		fr, err := im.ImportFile(ctx, src)
		res.add(fr)
		if err != nil {
			return res, err
		}

		if im.cfg.RemoveSources && !im.cfg.DryRun {
			if err := os.Remove(src.Path); err != nil {
				return res, fmt.Errorf("remove %s: %w", src.Path, err)
			}
			im.log.Info("source removed", slog.String("path", src.Path))
		}
	}

	switch {
	case im.cfg.DryRun:
		im.log.Info("dry run, nothing written")
	case im.cfg.SkipIndexes:
		im.log.Info("skipping index build")
	default:
		start := time.Now()
		im.log.Info("building indexes")
		if err := im.schema.BuildIndexes(ctx); err != nil {
			return res, err
		}
		im.log.Info("indexes built", slog.Duration("duration", time.Since(start)))
	}

	if im.cfg.DryRun {
		im.log.Info("dry run completed",
			slog.Int("files", len(res.Files)),
			slog.Int("rows", res.Rows),
			slog.Int("merged", res.Merged),
			slog.Int("skipped", res.Skipped),
		)
		return res, nil
	}
	im.log.Info("import completed",
		slog.Int("files", len(res.Files)),
		slog.Int("inserted", res.Inserted),
		slog.Int("merged", res.Merged),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// ImportFile imports one source file.
func (im *Importer) ImportFile(ctx context.Context, src Source) (FileResult, error) {
	rc, err := openSource(src.Path)
	if err != nil {
		return FileResult{Path: src.Path, Edition: src.Edition}, fmt.Errorf("import %s: %w", src.Path, err)
	}
	defer rc.Close()

	im.log.Info("importing", slog.String("edition", src.Edition), slog.String("path", src.Path))

	fr, err := im.ImportReader(ctx, rc, src.Edition)
	fr.Path = src.Path
	if err != nil {
		return fr, fmt.Errorf("import %s: %w", src.Path, err)
	}

	if im.cfg.DryRun {
		im.log.Info("file parsed",
			slog.String("edition", src.Edition),
			slog.Int("rows", fr.Rows),
			slog.Int("merged", fr.Merged),
			slog.Int("skipped", fr.Skipped),
		)
		return fr, nil
	}

	if fr.Inserted > 0 {
		if err := im.consolidate(ctx, &fr); err != nil {
			return fr, fmt.Errorf("import %s: %w", src.Path, err)
		}
	}

	im.log.Info("file imported",
		slog.String("edition", src.Edition),
		slog.Int("inserted", fr.Inserted),
		slog.Int("merged", fr.Merged),
		slog.Int("reconciled", fr.Reconciled),
		slog.Int("skipped", fr.Skipped),
		slog.Int("batches", fr.Batches),
		slog.Duration("duration", fr.Duration),
	)
	return fr, nil
}

// consolidate repairs what batching cannot see: rows of one word that were
// not adjacent in the input, or that an earlier import of the edition wrote.
func (im *Importer) consolidate(ctx context.Context, fr *FileResult) error {
	var folded, reconciled int
	err := im.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		folded, reconciled, err = im.writer.Consolidate(ctx, fr.Edition)
		return err
	})
	if err != nil {
		return fmt.Errorf("consolidate %s: %w", fr.Edition, err)
	}

	fr.Inserted -= folded
	fr.Merged += folded
	fr.Reconciled = reconciled
	return nil
}

// ImportReader streams JSONL from r. A producer goroutine reads, normalizes
// and batches lines while a single writer commits each batch in its own
// transaction; at most one batch waits between them.
func (im *Importer) ImportReader(ctx context.Context, r io.Reader, edition string) (FileResult, error) {
	fr := FileResult{Edition: edition}
	if edition == "" {
		return fr, fmt.Errorf("edition is required")
	}

	start := time.Now()
	batches := make(chan []domain.WordEntry, 1)
	g, gctx := errgroup.WithContext(ctx)

	var counts produceCounts
	g.Go(func() error {
		defer close(batches)
		var err error
		counts, err = im.produce(gctx, r, edition, batches)
		return err
	})

	var inserted, committed int
	g.Go(func() error {
		for batch := range batches {
			if err := gctx.Err(); err != nil {
				return err
			}
			if im.cfg.DryRun {
				committed++
				continue
			}
			n, err := im.writeBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", committed+1, err)
			}
			inserted += n
			committed++
			im.log.Debug("batch committed",
				slog.String("edition", edition),
				slog.Int("batch", committed),
				slog.Int("rows", n),
				slog.Int("inserted_total", inserted),
			)
		}
		return nil
	})

	err := g.Wait()

	fr.Lines = counts.lines
	fr.Skipped = counts.skipped
	fr.Merged = counts.merged
	fr.Rows = counts.rows
	fr.Inserted = inserted
	fr.Batches = committed
	fr.Duration = time.Since(start)
	return fr, err
}

func (im *Importer) writeBatch(ctx context.Context, batch []domain.WordEntry) (int, error) {
	var n int
	err := im.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = im.writer.CopyWords(ctx, batch)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

type produceCounts struct {
	lines, skipped, merged, rows int
}

// produce reads r line by line and sends batches of at most BatchSize rows.
// A word group larger than BatchSize is sent as one oversized batch.
func (im *Importer) produce(ctx context.Context, r io.Reader, edition string, out chan<- []domain.WordEntry) (produceCounts, error) {
	var c produceCounts

	batchSize := im.cfg.BatchSize
	batch := make([]domain.WordEntry, 0, batchSize)
	var group []domain.WordEntry

	emit := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
		batch = make([]domain.WordEntry, 0, batchSize)
		return nil
	}

	flushGroup := func() error {
		if len(group) == 0 {
			return nil
		}
		folded, absorbed := foldGroup(group)
		c.merged += absorbed
		c.rows += len(folded)
		reconcileGroup(folded)
		if len(batch) > 0 && len(batch)+len(folded) > batchSize {
			if err := emit(); err != nil {
				return err
			}
		}
		batch = append(batch, folded...)
		group = group[:0]
		if len(batch) >= batchSize {
			return emit()
		}
		return nil
	}

	lr := newLineReader(r, im.maxLine)
	for {
		raw, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errLineTooLong) {
			c.lines++
			c.skipped++
			im.log.Warn("line too long, skipped",
				slog.String("edition", edition),
				slog.Int("line", c.lines),
				slog.Int("limit", im.maxLine),
			)
			continue
		}
		if err != nil {
			return c, fmt.Errorf("read line %d: %w", c.lines+1, err)
		}

		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		c.lines++

		entry, ok := im.normalizer.Normalize(line, edition)
		if !ok {
			c.skipped++
			continue
		}

		if len(group) > 0 && !sameWord(group[0], entry) {
			if err := flushGroup(); err != nil {
				return c, err
			}
		}
		group = append(group, entry)
	}

	if err := flushGroup(); err != nil {
		return c, err
	}
	return c, emit()
}

var errLineTooLong = errors.New("line too long")

// lineReader yields newline-terminated lines of at most max bytes. A longer
// line is consumed to its end and reported as errLineTooLong, so the next
// call resumes on the following line.
type lineReader struct {
	r   *bufio.Reader
	max int
	buf []byte
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024), max: max}
}

// next returns the next line without its terminator. The slice is reused by
// the following call.
func (lr *lineReader) next() ([]byte, error) {
	lr.buf = lr.buf[:0]
	tooLong := false
	read := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			// One byte of slack for the terminator.
			if len(lr.buf)+len(chunk) > lr.max+1 {
				tooLong = true
				lr.buf = lr.buf[:0]
			} else {
				lr.buf = append(lr.buf, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil:
		case errors.Is(err, io.EOF):
			if !read {
				return nil, io.EOF
			}
		default:
			return nil, err
		}

		line := bytes.TrimSuffix(lr.buf, []byte{'\n'})
		if tooLong || len(line) > lr.max {
			return nil, errLineTooLong
		}
		return line, nil
	}
}
