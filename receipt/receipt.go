// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package receipt

import (
	"bufio"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

var (
	ErrNotFound  = errors.New("vote not found")
	ErrEmptyFile = errors.New("receipt file is empty")
)

// Field is one header/value pair of a ballot line
type Field struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Receipt is the ballot line matching a voter's hash
type Receipt struct {
	Hash   string  `json:"hash"`
	Line   int     `json:"line"`
	Fields []Field `json:"fields"`
}

// Hash computes the SHA-256 receipt of a voter: the hex digest of the
// uppercased last name, a space, the capitalized first name and the key
func Hash(key, lastName, firstName string) string {
	sum := sha256.Sum256([]byte(strings.ToUpper(lastName) + " " + Capitalize(firstName) + key))
	return hex.EncodeToString(sum[:])
}

// Capitalize uppercases the first letter of every word and lowercases the rest
func Capitalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			start = true
			b.WriteRune(r)
		case start:
			b.WriteRune(unicode.ToUpper(r))
			start = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Find returns the first line after the header that contains hash, split
// into fields named by the header
func Find(r io.Reader, hash string) (*Receipt, error) {
	if hash == "" {
		return nil, ErrNotFound
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, ErrEmptyFile
	}
	header, err := splitLine(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	line := 1
	for sc.Scan() {
		line++
		text := sc.Text()
		if !strings.Contains(text, hash) {
			continue
		}

		values, err := splitLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		return &Receipt{Hash: hash, Line: line, Fields: pair(header, values)}, nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}

	return nil, ErrNotFound
}

func splitLine(s string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(s))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.Read()
}

// pair zips headers with values; extra values get an empty header
func pair(header, values []string) []Field {
	fields := make([]Field, len(values))
	for i, v := range values {
		if i < len(header) {
			fields[i].Header = strings.TrimSpace(header[i])
		}
		fields[i].Value = strings.TrimSpace(v)
	}
	return fields
}
