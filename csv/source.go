// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package csv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
)

// ErrMissingColumn is the cause of the error returned by NewSource when the
// header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RowUnmarshaler is implemented by records which take columns not named by
// their csv tags. Next calls UnmarshalCSVRow after decoding the tagged
// fields. The slices are only valid until the call returns.
type RowUnmarshaler interface {
	UnmarshalCSVRow(header, row []string) error
}

// Columner is implemented by records which require columns beyond those
// named by their csv tags.
type Columner interface {
	Columns() []string
}

// Source reads a CSV file with a header row, decoding each data row into a
// struct with csv tags. Columns can be dropped from the header before anything
// else sees them. Rows whose fields are all blank are skipped and counted.
// Source is not safe for concurrent use.
type Source struct {
	name   string
	rc     io.ReadCloser
	r      *csv.Reader
	dec    *csvutil.Decoder
	header []string
	keep   []int
	width  int

	drop        map[string]struct{}
	dropUnnamed bool
	required    []string
	comma       rune

	line  int
	blank int
	row   []string
}

// Option is a functional option to pass to NewSource.
type Option func(*Source) error

// OptDropColumns drops the named columns.
func OptDropColumns(names ...string) Option {
	return func(s *Source) error {
		for _, n := range names {
			s.drop[n] = struct{}{}
		}
		return nil
	}
}

// OptDropUnnamed drops columns with a blank name, and the "Unnamed: N"
// columns pandas writes for an unnamed index or trailing separators.
func OptDropUnnamed() Option {
	return func(s *Source) error {
		s.dropUnnamed = true
		return nil
	}
}

// OptRequire makes NewSource fail unless every one of cols is in the header.
func OptRequire(cols ...string) Option {
	return func(s *Source) error {
		s.required = append(s.required, cols...)
		return nil
	}
}

// OptRequireHeaderOf requires every column named by the csv tags of v, which
// must be a struct or a pointer to one, and those returned by v.Columns if v
// is a Columner.
func OptRequireHeaderOf(v interface{}) Option {
	return func(s *Source) error {
		cols, err := csvutil.Header(v, "csv")
		if err != nil {
			return errors.Wrap(err, "getting header of record type")
		}
		s.required = append(s.required, cols...)
		if c, ok := v.(Columner); ok {
			s.required = append(s.required, c.Columns()...)
		}
		return nil
	}
}

// OptComma sets the field delimiter.
func OptComma(r rune) Option {
	return func(s *Source) error {
		s.comma = r
		return nil
	}
}

// NewSource opens o and reads its header. It fails if the header is empty,
// has blank or duplicate names after dropping columns, or lacks a required
// column.
func NewSource(o OpenStringer, opts ...Option) (*Source, error) {
	s := &Source{
		name:  o.String(),
		drop:  make(map[string]struct{}),
		comma: ',',
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	rc, err := o.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", s.name)
	}
	if err := s.init(rc); err != nil {
		rc.Close()
		return nil, errors.Wrapf(err, "reading %s", s.name)
	}
	return s, nil
}

func (s *Source) init(rc io.ReadCloser) (err error) {
	s.rc = rc
	s.r = csv.NewReader(rc)
	s.r.Comma = s.comma
	s.r.FieldsPerRecord = -1
	s.r.ReuseRecord = true

	raw, err := s.r.Read()
	if err == io.EOF {
		return errors.New("no header")
	} else if err != nil {
		return errors.Wrap(err, "reading header")
	}
	s.line = 1
	s.width = len(raw)
	if len(raw) > 0 {
		raw[0] = strings.TrimPrefix(raw[0], "\ufeff")
	}
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if _, ok := s.drop[h]; ok || (s.dropUnnamed && unnamed(h)) {
			continue
		}
		s.header = append(s.header, h)
		s.keep = append(s.keep, i)
	}
	if err := validateHeader(s.header); err != nil {
		return errors.Wrap(err, "validating header")
	}
	have := make(map[string]struct{}, len(s.header))
	for _, h := range s.header {
		have[h] = struct{}{}
	}
	for _, c := range s.required {
		if _, ok := have[c]; !ok {
			return errors.Wrapf(ErrMissingColumn, "%q", c)
		}
	}
	s.row = make([]string, len(s.header))
	s.dec, err = csvutil.NewDecoder(rowReader{s}, s.header...)
	return errors.Wrap(err, "creating decoder")
}

func unnamed(h string) bool {
	return h == "" || strings.HasPrefix(h, "Unnamed: ")
}

// Header returns the column names left after dropping.
func (s *Source) Header() []string {
	return append([]string(nil), s.header...)
}

// Next decodes the next non-blank row into v, which must be a pointer to a
// struct with csv tags. It returns the line number of the row, counting the
// header as line 1, and io.EOF when there are no more rows.
func (s *Source) Next(v interface{}) (int, error) {
	err := s.dec.Decode(v)
	if err == io.EOF {
		return s.line, io.EOF
	} else if err != nil {
		return s.line, errors.Wrapf(err, "%s: line %d", s.name, s.line)
	}
	if ru, ok := v.(RowUnmarshaler); ok {
		if err := ru.UnmarshalCSVRow(s.header, s.row); err != nil {
			return s.line, errors.Wrapf(err, "%s: line %d", s.name, s.line)
		}
	}
	return s.line, nil
}

// Blank returns the number of blank rows skipped so far.
func (s *Source) Blank() int { return s.blank }

// Close closes the underlying reader.
func (s *Source) Close() error {
	return errors.Wrapf(s.rc.Close(), "closing %s", s.name)
}

// read returns the kept fields of the next non-blank row.
func (s *Source) read() ([]string, error) {
	for {
		rec, err := s.r.Read()
		if err != nil {
			if pe, ok := err.(*csv.ParseError); ok {
				s.line = pe.Line
			}
			return nil, err
		}
		s.line, _ = s.r.FieldPos(0)
		if blank(rec) {
			s.blank++
			continue
		}
		for i, idx := range s.keep {
			if idx < len(rec) {
				s.row[i] = rec[idx]
			} else {
				s.row[i] = ""
			}
		}
		for i := s.width; i < len(rec); i++ {
			if strings.TrimSpace(rec[i]) != "" {
				return nil, errors.Errorf("data in column %d, which has no header", i)
			}
		}
		return s.row, nil
	}
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// rowReader adapts Source to csvutil.Reader.
type rowReader struct {
	s *Source
}

func (r rowReader) Read() ([]string, error) {
	return r.s.read()
}

func validateHeader(header []string) error {
	if len(header) == 0 {
		return errors.New("header has no columns")
	}
	fields := make(map[string]int)
	for i, h := range header {
		if h == "" {
			return errors.Errorf("header contains empty string at %d: %v", i, header)
		}
		if pos, exists := fields[h]; exists {
			return errors.Errorf("%s appeared at both %d and %d in header", h, pos, i)
		}
		fields[h] = i
	}
	return nil
}
