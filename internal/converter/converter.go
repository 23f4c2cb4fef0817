// Package converter rebuilds the bundled songs database from the CSV song
// list.
//
// A run is a straight line: parse the whole source, optionally check for
// repeated music_id values, delete the previous database, create a new one
// with the songs table, insert every record in one transaction, and count
// the rows back. Parsing happens first so that a bad source never touches
// the existing database. Once the new file exists, any later failure
// deletes it again.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"songdb/internal/datasource"
	"songdb/internal/datasource/file"
	"songdb/internal/dedup"
	"songdb/internal/logging"
	"songdb/internal/metrics"
	"songdb/internal/parser/csv"
	"songdb/internal/songs"
	"songdb/internal/storage"
	"songdb/internal/storage/sqlite/ddl"
)

// skipSamples is how many skipped-row messages are kept and logged.
const skipSamples = 5

// dupSamples is how many duplicates are spelled out in a report-mode error.
const dupSamples = 5

// sidecars are the files SQLite may keep next to a database. A stale one
// would be replayed into the fresh file, so they go with it.
var sidecars = []string{"-journal", "-wal", "-shm"}

// Options configures a Converter. SourcePath and DestPath are required.
type Options struct {
	SourcePath string
	DestPath   string

	// Table defaults to songs.Table.
	Table string

	RowPolicy    csv.RowPolicy
	Duplicates   DuplicatePolicy
	Comma        rune
	NormalizeNFC bool

	// Job labels metrics. Defaults to "songdb".
	Job string

	// StorageKind selects the registered storage backend. Defaults to "sqlite".
	StorageKind string

	// Source overrides the file source built from SourcePath.
	Source datasource.Source
}

// Result describes a run, successful or not. Fields are filled as far as the
// run got.
type Result struct {
	Source string
	Dest   string

	// Rows counts data rows read from the source, Parsed those accepted and
	// Skipped those dropped under the lenient row policy.
	Rows    int
	Parsed  int
	Skipped int

	// SkipSamples holds the first few skipped-row messages.
	SkipSamples []string

	// Duplicates lists repeated music_id values found in report mode.
	Duplicates []dedup.Duplicate

	// Written is the row count queried back from the new database.
	Written int64

	// Bytes is the size of the new database file.
	Bytes int64

	StartedAt time.Time
	Duration  time.Duration
}

// Converter runs the rebuild.
type Converter struct {
	opt Options
	src datasource.Source
}

// New validates opt and fills its defaults.
func New(opt Options) (*Converter, error) {
	if opt.SourcePath == "" && opt.Source == nil {
		return nil, errors.New("converter: source path is required")
	}
	if opt.DestPath == "" {
		return nil, errors.New("converter: destination path is required")
	}
	if opt.Table == "" {
		opt.Table = songs.Table
	}
	if opt.RowPolicy == "" {
		opt.RowPolicy = csv.Strict
	}
	if opt.Duplicates == "" {
		opt.Duplicates = Abort
	}
	if opt.Job == "" {
		opt.Job = "songdb"
	}
	if opt.StorageKind == "" {
		opt.StorageKind = "sqlite"
	}
	src := opt.Source
	if src == nil {
		src = file.NewLocal(opt.SourcePath)
	}
	return &Converter{opt: opt, src: src}, nil
}

// Run performs one rebuild. On failure the error is an *Error naming the
// step, and Result holds whatever was learned before it.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	res := Result{Source: c.opt.SourcePath, Dest: c.opt.DestPath, StartedAt: time.Now()}
	err := c.run(ctx, &res)
	res.Duration = time.Since(res.StartedAt)
	if err != nil {
		return res, err
	}
	metrics.RecordSuccess(c.opt.Job, res.Bytes, time.Now())
	logging.Infof("converter: done: source=%s dest=%s rows=%d skipped=%d written=%d took=%s",
		res.Source, res.Dest, res.Rows, res.Skipped, res.Written, res.Duration.Truncate(time.Millisecond))
	return res, nil
}

func (c *Converter) run(ctx context.Context, res *Result) error {
	var parsed []songs.Song
	if err := c.step(StepParse, func() (err error) {
		parsed, err = c.parse(ctx, res)
		return err
	}); err != nil {
		return err
	}

	if c.opt.Duplicates == Report {
		if err := c.step(StepDuplicates, func() error { return c.checkDuplicates(parsed, res) }); err != nil {
			return err
		}
	}

	if err := c.step(StepRemove, c.removeDest); err != nil {
		return err
	}

	var repo storage.Repository
	if err := c.step(StepCreate, func() (err error) {
		repo, err = c.create(ctx)
		return err
	}); err != nil {
		c.discard()
		return err
	}
	defer repo.Close()

	if err := c.write(ctx, repo, parsed, res); err != nil {
		repo.Close()
		c.discard()
		return err
	}
	repo.Close()

	if fi, err := os.Stat(c.opt.DestPath); err == nil {
		res.Bytes = fi.Size()
	}
	return nil
}

// write runs the steps that need the open database.
func (c *Converter) write(ctx context.Context, repo storage.Repository, ss []songs.Song, res *Result) error {
	if err := c.step(StepTable, func() error { return c.createTable(ctx, repo) }); err != nil {
		return err
	}
	if err := c.step(StepInsert, func() error { return c.insert(ctx, repo, ss) }); err != nil {
		return err
	}
	return c.step(StepCount, func() error {
		n, err := repo.Count(ctx)
		if err != nil {
			return newError(StepCount, ErrSchema, c.opt.DestPath, 0, err)
		}
		res.Written = n
		return nil
	})
}

// step times fn and records it as one pipeline step.
func (c *Converter) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(c.opt.Job, name, err, d)
	logging.Debugf("converter: step=%s took=%s err=%v", name, d.Truncate(time.Microsecond), err)
	return err
}

func (c *Converter) parse(ctx context.Context, res *Result) ([]songs.Song, error) {
	path := c.opt.SourcePath
	rc, err := c.src.Open(ctx)
	if err != nil {
		return nil, newError(StepParse, ErrIO, path, 0, err)
	}
	defer rc.Close()

	skips := newErrAgg(skipSamples)
	out, err := csv.Read(ctx, rc, csv.Options{
		Comma:        c.opt.Comma,
		Policy:       c.opt.RowPolicy,
		NormalizeNFC: c.opt.NormalizeNFC,
		OnSkip: func(line int, err error) {
			skips.add(fmt.Sprintf("line %d: %v", line, err))
		},
	})
	res.Rows, res.Parsed, res.Skipped = out.Rows, len(out.Songs), out.Skipped
	res.SkipSamples = skips.first
	metrics.RecordRow(c.opt.Job, "parsed", int64(len(out.Songs)))
	metrics.RecordRow(c.opt.Job, "skipped", int64(out.Skipped))
	if err != nil {
		return nil, parseError(path, err)
	}

	if skips.count > 0 {
		logging.Infof("converter: skipped rows: %d (showing first %d)", skips.count, len(skips.first))
		for i, s := range skips.first {
			logging.Infof("  #%03d: %s", i+1, s)
		}
	}
	logging.Debugf("converter: parsed: rows=%d accepted=%d skipped=%d", out.Rows, len(out.Songs), out.Skipped)
	return out.Songs, nil
}

// parseError maps a csv.Read failure onto an *Error. Row and header problems
// are parse errors; anything else came from reading the file.
func parseError(path string, err error) *Error {
	var he *csv.HeaderError
	if errors.As(err, &he) {
		return newError(StepParse, ErrParse, path, 1, he)
	}
	var re *csv.RowError
	if errors.As(err, &re) {
		return newError(StepParse, ErrParse, path, re.Line, re.Err)
	}
	return newError(StepParse, ErrIO, path, 0, err)
}

func (c *Converter) checkDuplicates(ss []songs.Song, res *Result) error {
	ds := dedup.Find(ss)
	res.Duplicates = ds
	metrics.RecordRow(c.opt.Job, "duplicate", int64(len(ds)))
	if len(ds) == 0 {
		return nil
	}
	for _, d := range ds {
		logging.Debugf("converter: duplicate: %s", d)
	}
	return newError(StepDuplicates, ErrConstraint, c.opt.SourcePath, ds[0].Line,
		fmt.Errorf("%w: %d repeated music_id values: %s", storage.ErrConstraint, len(ds), dedup.Summary(ds, dupSamples)))
}

// removeDest deletes the previous database and its sidecar files.
func (c *Converter) removeDest() error {
	dest := c.opt.DestPath
	fi, err := os.Lstat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return newError(StepRemove, ErrIO, dest, 0, err)
	case fi.IsDir():
		return newError(StepRemove, ErrIO, dest, 0, file.ErrIsDir)
	}
	for _, p := range append([]string{dest}, sidecarPaths(dest)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return newError(StepRemove, ErrIO, p, 0, err)
		}
	}
	return nil
}

func (c *Converter) create(ctx context.Context) (storage.Repository, error) {
	dest := c.opt.DestPath
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, newError(StepCreate, ErrIO, dest, 0, err)
	}
	repo, err := storage.New(ctx, storage.Config{
		Kind:    c.opt.StorageKind,
		DSN:     dest,
		Table:   c.opt.Table,
		Columns: songs.Columns(),
	})
	if err != nil {
		return nil, newError(StepCreate, ErrSchema, dest, 0, err)
	}
	return repo, nil
}

func (c *Converter) createTable(ctx context.Context, repo storage.Repository) error {
	if err := ddl.EnsureTable(ctx, repo, songs.TableDef(c.opt.Table)); err != nil {
		return newError(StepTable, ErrSchema, c.opt.DestPath, 0, err)
	}
	return nil
}

func (c *Converter) insert(ctx context.Context, repo storage.Repository, ss []songs.Song) error {
	rows := make([][]any, len(ss))
	for i, s := range ss {
		rows[i] = s.Values()
	}
	n, err := repo.CopyFrom(ctx, songs.Columns(), rows)
	if err != nil {
		return c.insertError(ss, err)
	}
	metrics.RecordRow(c.opt.Job, "inserted", n)
	return nil
}

// insertError points a rejected row back at its source line.
func (c *Converter) insertError(ss []songs.Song, err error) *Error {
	kind := ErrSchema
	switch {
	case errors.Is(err, storage.ErrConstraint):
		kind = ErrConstraint
	case errors.Is(err, storage.ErrIO),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		kind = ErrIO
	}
	var re *storage.RowError
	if errors.As(err, &re) && re.Row >= 0 && re.Row < len(ss) {
		s := ss[re.Row]
		if kind == ErrConstraint {
			metrics.RecordRow(c.opt.Job, "duplicate", 1)
			err = fmt.Errorf("duplicate music_id %q: %w", s.MusicID, re.Err)
		}
		return newError(StepInsert, kind, c.opt.SourcePath, s.Line, err)
	}
	return newError(StepInsert, kind, c.opt.DestPath, 0, err)
}

// discard removes a partially written database. Errors are logged only; the
// step error that got us here is the one worth returning.
func (c *Converter) discard() {
	for _, p := range append([]string{c.opt.DestPath}, sidecarPaths(c.opt.DestPath)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Errorf("converter: remove partial output %s: %v", p, err)
		}
	}
}

func sidecarPaths(dest string) []string {
	out := make([]string, len(sidecars))
	for i, s := range sidecars {
		out[i] = dest + s
	}
	return out
}
