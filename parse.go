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

package relkit

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// The parse helpers in this file turn raw CSV fields into typed values. The
// strict variants (ParseInt, ParseFloat, ...) return a *FieldError on
// anything they can't read. The lenient variants (IntOr, FloatOr) fall back
// to a default instead. The Null variants map missing markers onto SQL NULL.

// missing holds the values which mean "no value" in the source data. pandas
// writes several of these depending on the dtype of the column.
var missing = map[string]struct{}{
	"":     {},
	"NA":   {},
	"<NA>": {},
	"NaN":  {},
	"nan":  {},
	"NaT":  {},
	"None": {},
	"null": {},
	"NULL": {},
}

// IsMissing reports whether field is blank or one of the missing-value
// markers.
func IsMissing(field string) bool {
	_, ok := missing[strings.TrimSpace(field)]
	return ok
}

// ErrMissing is the cause of a FieldError for a required field with no value.
const ErrMissing = Error("value is missing")

func fieldErr(column, value string, err error) error {
	return &FieldError{Column: column, Value: value, Err: err}
}

// ParseString returns the trimmed field, failing if it is missing.
func ParseString(column, field string) (string, error) {
	if IsMissing(field) {
		return "", fieldErr(column, field, ErrMissing)
	}
	return strings.TrimSpace(field), nil
}

// ParseInt parses an integer. Integral floats such as "3.0" are accepted
// since pandas writes nullable integer columns that way.
func ParseInt(column, field string) (int64, error) {
	if IsMissing(field) {
		return 0, fieldErr(column, field, ErrMissing)
	}
	s := strings.TrimSpace(field)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fieldErr(column, field, errors.Wrap(err, "parsing int"))
	}
	return int64(f), nil
}

// ParseFloat parses a float. NaN and infinities are rejected.
func ParseFloat(column, field string) (float64, error) {
	if IsMissing(field) {
		return 0, fieldErr(column, field, ErrMissing)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fieldErr(column, field, errors.Wrap(err, "parsing float"))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fieldErr(column, field, errors.New("not a finite number"))
	}
	return f, nil
}

// ParseBool parses the boolean spellings found in the datasets: true/false in
// any case, and 1/0 (also as floats).
func ParseBool(column, field string) (bool, error) {
	if IsMissing(field) {
		return false, fieldErr(column, field, ErrMissing)
	}
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "true", "t", "1", "1.0", "yes", "y":
		return true, nil
	case "false", "f", "0", "0.0", "no", "n":
		return false, nil
	}
	return false, fieldErr(column, field, errors.New("not a boolean"))
}

// ParseTime parses field with the first layout that accepts it.
func ParseTime(column, field string, layouts ...string) (time.Time, error) {
	if IsMissing(field) {
		return time.Time{}, fieldErr(column, field, ErrMissing)
	}
	s := strings.TrimSpace(field)
	var err error
	for _, layout := range layouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fieldErr(column, field, errors.Wrap(err, "parsing time"))
}

// FloatOr parses a float, returning def if the field is missing or malformed.
func FloatOr(field string, def float64) float64 {
	f, err := ParseFloat("", field)
	if err != nil {
		return def
	}
	return f
}

// IntOr parses an integer, returning def if the field is missing or
// malformed.
func IntOr(field string, def int64) int64 {
	i, err := ParseInt("", field)
	if err != nil {
		return def
	}
	return i
}

// NullInt parses an optional integer. Missing markers become NULL, anything
// else which doesn't parse is an error.
func NullInt(column, field string) (sql.NullInt64, error) {
	if IsMissing(field) {
		return sql.NullInt64{}, nil
	}
	i, err := ParseInt(column, field)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: i, Valid: true}, nil
}

// NullFloat parses an optional float.
func NullFloat(column, field string) (sql.NullFloat64, error) {
	if IsMissing(field) {
		return sql.NullFloat64{}, nil
	}
	f, err := ParseFloat(column, field)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

// NullBool parses an optional boolean indicator.
func NullBool(column, field string) (sql.NullBool, error) {
	if IsMissing(field) {
		return sql.NullBool{}, nil
	}
	b, err := ParseBool(column, field)
	if err != nil {
		return sql.NullBool{}, err
	}
	return sql.NullBool{Bool: b, Valid: true}, nil
}

// NullString returns the trimmed field, or NULL for missing markers.
func NullString(field string) sql.NullString {
	if IsMissing(field) {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(field), Valid: true}
}
