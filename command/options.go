package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/peak/gosort/compress"
	"github.com/peak/gosort/sortkey"
	"github.com/peak/gosort/strutil"
)

const defaultBufferSize = "1M"

// recordSeparator resolves the byte records are cut on: NUL when -z is
// given, otherwise the single byte named by --field-separator (default
// newline).
func recordSeparator(c *cli.Context) (byte, error) {
	if c.Bool("zero-terminated") {
		return 0, nil
	}

	sep := c.String("field-separator")
	if sep == "" {
		return '\n', nil
	}
	if len(sep) != 1 {
		return 0, fmt.Errorf("--field-separator must be exactly one byte, got %q", sep)
	}
	return sep[0], nil
}

// bufferCap resolves --buffer-size into a byte count.
func bufferCap(c *cli.Context) (int, error) {
	v := c.String("buffer-size")
	if v == "" {
		v = defaultBufferSize
	}
	n, err := strutil.ParseSize(v)
	if err != nil {
		return 0, fmt.Errorf("--buffer-size: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("--buffer-size must be positive, got %q", v)
	}
	return int(n), nil
}

// buildSettings assembles the sortkey.Settings snapshot for one sort
// invocation.
func buildSettings(c *cli.Context) (*sortkey.Settings, error) {
	sep, err := recordSeparator(c)
	if err != nil {
		return nil, err
	}

	fieldSep := byte(sortkey.DefaultFieldSeparator)
	if v := c.String("field-separator"); v != "" && len(v) == 1 {
		fieldSep = v[0]
	}

	var keys []sortkey.KeyField
	for _, spec := range c.StringSlice("key") {
		k, err := parseKeySpec(spec)
		if err != nil {
			return nil, fmt.Errorf("--key %q: %w", spec, err)
		}
		keys = append(keys, k)
	}

	return &sortkey.Settings{
		Separator:    sep,
		FieldSep:     fieldSep,
		Unique:       c.Bool("unique"),
		Reverse:      c.Bool("reverse"),
		Numeric:      c.Bool("numeric-sort"),
		Keys:         keys,
		CompressProg: c.String("compress-prog"),
	}, nil
}

// parseKeySpec parses a coreutils-style -k field spec: F[.C][,F[.C]].
// sortkey honors only the first -k option given; both its start and its
// optional end position are used.
func parseKeySpec(spec string) (sortkey.KeyField, error) {
	var k sortkey.KeyField

	parts := strings.SplitN(spec, ",", 2)

	field, char, err := parseFieldPos(parts[0])
	if err != nil {
		return k, err
	}
	k.StartField, k.StartChar = field, char

	if len(parts) == 2 {
		field, char, err := parseFieldPos(parts[1])
		if err != nil {
			return k, err
		}
		k.EndField, k.EndChar = field, char
	}

	return k, nil
}

func parseFieldPos(s string) (field, char int, err error) {
	dot := strings.IndexByte(s, '.')
	fieldStr := s
	if dot >= 0 {
		fieldStr = s[:dot]
	}

	field, err = strconv.Atoi(fieldStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid field number %q", fieldStr)
	}
	if field <= 0 {
		return 0, 0, fmt.Errorf("field number must be positive, got %d", field)
	}

	if dot >= 0 {
		char, err = strconv.Atoi(s[dot+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid character offset in %q", s)
		}
	}

	return field, char, nil
}

// buildCodec resolves the run-file compression codec: an external
// --compress-prog when given, otherwise the built-in gzip codec when
// --compress is set, otherwise no compression at all.
func buildCodec(c *cli.Context) compress.Codec {
	if prog := c.String("compress-prog"); prog != "" {
		return compress.ExecCodec{Program: prog}
	}
	if c.Bool("compress") {
		return compress.GzipCodec{}
	}
	return compress.None
}
