package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"songdb/internal/songs"
)

// Result carries the parsed records and row accounting for one read.
type Result struct {
	// Songs are the accepted records in source order.
	Songs []songs.Song

	// Header is the header row as read (BOM removed).
	Header []string

	// Rows counts data rows seen, including skipped ones.
	Rows int

	// Skipped counts rows dropped under Lenient.
	Skipped int
}

// Read parses every data row of r into a songs.Song.
//
// Errors:
//   - no header row: *RowError wrapping ErrMissingHeader
//   - header lacks a required name: *HeaderError (matches ErrMissingColumns)
//   - malformed row under Strict: *RowError with the source line
//   - the underlying reader fails: the read error, wrapped
//   - ctx done: ctx.Err()
//
// Nothing is written anywhere; the caller decides what to do with Result.
func Read(ctx context.Context, r io.Reader, opt Options) (Result, error) {
	policy := opt.Policy
	if policy == "" {
		policy = Strict
	}

	// A UTF-8 BOM is dropped and UTF-16 input with a BOM is decoded to UTF-8.
	// Without a BOM bytes pass through untouched.
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	// Width is enforced below so Lenient can skip instead of stopping.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, &RowError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		return Result{}, &RowError{Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	idx, err := mapHeader(header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Header: header}
	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}

		var line int
		var pe *csv.ParseError
		switch {
		case errors.As(err, &pe):
			line = pe.StartLine
		case err == nil:
			line, _ = cr.FieldPos(0)
		default:
			// The underlying reader failed; no policy can skip past that.
			return res, fmt.Errorf("csv: read: %w", err)
		}
		res.Rows++

		var s songs.Song
		if err == nil {
			s, err = buildSong(rec, len(header), idx, opt.NormalizeNFC)
		}
		if err != nil {
			if policy == Strict {
				return res, &RowError{Line: line, Err: err}
			}
			res.Skipped++
			if opt.OnSkip != nil {
				opt.OnSkip(line, err)
			}
			continue
		}
		s.Line = line
		res.Songs = append(res.Songs, s)
	}
}

// mapHeader returns, for each entry of songs.Fields, the index of its column
// in header. When a name repeats, the last occurrence wins.
func mapHeader(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	idx := make([]int, len(songs.Fields))
	var missing []string
	for i, f := range songs.Fields {
		j, ok := pos[f.Header]
		if !ok {
			missing = append(missing, f.Header)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing, Found: header}
	}
	return idx, nil
}

func buildSong(rec []string, width int, idx []int, nfc bool) (songs.Song, error) {
	if len(rec) != width {
		return songs.Song{}, fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, width, len(rec))
	}
	vals := make([]string, len(idx))
	for i, j := range idx {
		v := rec[j]
		if !utf8.ValidString(v) {
			return songs.Song{}, fmt.Errorf("%w in column %s", ErrInvalidUTF8, songs.Fields[i].Header)
		}
		if nfc {
			v = norm.NFC.String(v)
		}
		vals[i] = v
	}
	return songs.FromValues(vals), nil
}
