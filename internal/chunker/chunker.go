// Package chunker splits a line-oriented input into documents of a fixed
// number of lines. A trailing group shorter than the chunk size still forms
// one final document.
package chunker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// Document is one chunk of the input. Index is 1-based; StartLine and
// EndLine are the 1-based source lines actually covered.
type Document struct {
	Index     int
	StartLine int
	EndLine   int
	Lines     int
	Text      string
}

type Chunker struct {
	reader           *bufio.Reader
	linesPerDocument int
	line             int
	index            int
	done             bool
	buf              strings.Builder
}

func New(r io.Reader, linesPerDocument int) (*Chunker, error) {
	if linesPerDocument < 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
			"lines per document must be at least 1, got %d", linesPerDocument)
	}
	return &Chunker{
		reader:           bufio.NewReaderSize(r, 64*1024),
		linesPerDocument: linesPerDocument,
	}, nil
}

// Next returns the next document, or io.EOF once the input is exhausted.
// Each line of Text is terminated by a newline; a trailing carriage return
// on a line is dropped. A line that is not valid UTF-8 is an I/O error.
func (c *Chunker) Next() (Document, error) {
	if c.done {
		return Document{}, io.EOF
	}
	c.buf.Reset()
	start := c.line + 1
	lines := 0
	for lines < c.linesPerDocument {
		text, err := c.reader.ReadString('\n')
		if len(text) > 0 {
			text = strings.TrimSuffix(text, "\n")
			text = strings.TrimSuffix(text, "\r")
			if !utf8.ValidString(text) {
				return Document{}, fmt.Errorf("reading line %d: %w: invalid UTF-8", c.line+1, apperrors.ErrIO)
			}
			c.buf.WriteString(text)
			c.buf.WriteByte('\n')
			c.line++
			lines++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.done = true
				break
			}
			return Document{}, fmt.Errorf("reading line %d: %w: %w", c.line+1, apperrors.ErrIO, err)
		}
	}
	if lines == 0 {
		return Document{}, io.EOF
	}
	c.index++
	return Document{
		Index:     c.index,
		StartLine: start,
		EndLine:   c.line,
		Lines:     lines,
		Text:      c.buf.String(),
	}, nil
}

// Each calls fn for every document in order, stopping at the first error.
func (c *Chunker) Each(fn func(Document) error) error {
	for {
		doc, err := c.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}
