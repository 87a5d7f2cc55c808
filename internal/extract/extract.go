// Package extract turns HWP and HWPX files into plain text and extraction IR.
package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/roboco-io/hwpkit/internal/ir"
	"github.com/roboco-io/hwpkit/internal/parser"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
	"github.com/roboco-io/hwpkit/internal/parser/hwpx"
)

// MinRetrievalRunes is the shortest normalized text ForRetrieval accepts.
const MinRetrievalRunes = 50

// ErrTextTooShort is returned by ForRetrieval for documents with almost no text.
var ErrTextTooShort = errors.New("extract: text too short")

type options struct {
	log    *zap.Logger
	parser parser.Options
}

// Option configures File, ForRetrieval and Document.
type Option func(*options)

// WithLogger receives reader warnings.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithParserOptions sets image extraction options for Document.
func WithParserOptions(po parser.Options) Option {
	return func(o *options) {
		o.parser = po
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop(), parser: parser.DefaultOptions()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Text returns the visible text of every paragraph in reading order, nested cell
// and text box paragraphs included, one paragraph per line.
func Text(doc *hwp5.Document) string {
	var b strings.Builder
	doc.Walk(func(p *hwp5.Paragraph) {
		b.WriteString(p.Text())
		b.WriteByte('\n')
	})
	return b.String()
}

// Normalize composes the text to NFC, trims every line and drops empty lines.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Detect reads the magic bytes of the file at path.
func Detect(path string) (parser.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return parser.FormatUnknown, err
	}
	defer f.Close()

	format, err := parser.DetectFormatFromReader(f)
	if err != nil {
		return parser.FormatUnknown, err
	}
	if format == parser.FormatUnknown {
		return format, fmt.Errorf("%w: %s", parser.ErrUnknownFormat, path)
	}
	return format, nil
}

// File extracts normalized plain text. The format is chosen by magic bytes, not by
// the file extension.
func File(path string, opts ...Option) (string, error) {
	o := newOptions(opts)
	format, err := Detect(path)
	if err != nil {
		return "", err
	}

	switch format {
	case parser.FormatHWP:
		doc, err := hwp5.ReadFile(path, hwp5.WithLogger(o.log))
		if err != nil {
			return "", err
		}
		return Normalize(Text(doc)), nil
	default:
		doc, err := Document(path, opts...)
		if err != nil {
			return "", err
		}
		return Normalize(doc.Text()), nil
	}
}

// ForRetrieval is File for indexing pipelines: documents whose normalized text is
// shorter than MinRetrievalRunes are rejected with ErrTextTooShort.
func ForRetrieval(path string, opts ...Option) (string, error) {
	text, err := File(path, opts...)
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(text); n < MinRetrievalRunes {
		return "", fmt.Errorf("%w: %d characters (minimum %d)", ErrTextTooShort, n, MinRetrievalRunes)
	}
	return text, nil
}

// Open returns the IR parser for the file at path.
func Open(path string, opts ...Option) (parser.Parser, error) {
	o := newOptions(opts)
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	o.log.Debug("format detected", zap.String("path", path), zap.Stringer("format", format))
	if ext := parser.DetectFormat(path); ext != parser.FormatUnknown && ext != format {
		o.log.Warn("file extension does not match content",
			zap.String("path", path), zap.Stringer("extension", ext), zap.Stringer("content", format))
	}

	switch format {
	case parser.FormatHWP:
		return hwp5.New(path, o.parser, o.log)
	case parser.FormatHWPX:
		return hwpx.New(path, o.parser, o.log)
	}
	return nil, parser.ErrUnknownFormat
}

// Document parses the file at path into the extraction IR.
func Document(path string, opts ...Option) (*ir.Document, error) {
	p, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse()
}
