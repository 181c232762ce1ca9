// Package logsource reads client addresses out of JSON access logs.
//
// Each line of a log holds one JSON object; the remote_addr field is
// extracted. Lines that do not decode, or that carry no address, are
// counted as invalid and skipped. Files ending in .gz are decompressed on
// the fly.
package logsource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// Stats tallies the lines read from a log.
type Stats struct {
	Total   int
	Invalid int
}

// Valid returns the number of lines an address was extracted from.
func (s Stats) Valid() int {
	return s.Total - s.Invalid
}

type record struct {
	RemoteAddr string `json:"remote_addr"`
}

// Option configures Open.
type Option func(*options)

type options struct {
	progress io.Writer
}

// WithProgress copies every byte read from the underlying file to w,
// before decompression. It is meant for progress bars sized by file
// length.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// Reader yields the addresses of one log file.
type Reader struct {
	f      *os.File
	r      io.Reader
	closer io.Closer // gzip stream, if any
}

// Open opens the log at path. The caller must Close the reader.
func Open(path string, opts ...Option) (*Reader, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	var src io.Reader = f
	if o.progress != nil {
		src = io.TeeReader(f, o.progress)
	}

	rd := &Reader{f: f, r: src}
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(src)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip log %s: %w", path, err)
		}
		rd.r = zr
		rd.closer = zr
	}
	return rd, nil
}

// Addrs reads the remainder of the log and returns the extracted addresses
// in log order.
func (rd *Reader) Addrs() ([][]byte, Stats, error) {
	return ReadAddrs(rd.r)
}

// Close releases the file and decompressor.
func (rd *Reader) Close() error {
	if rd.closer != nil {
		if err := rd.closer.Close(); err != nil {
			rd.f.Close()
			return err
		}
	}
	return rd.f.Close()
}

// ReadAddrs extracts the address of every line of r.
func ReadAddrs(r io.Reader) ([][]byte, Stats, error) {
	var (
		addrs [][]byte
		stats Stats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		stats.Total++
		addr, ok := ExtractAddr(scanner.Bytes())
		if !ok {
			stats.Invalid++
			continue
		}
		addrs = append(addrs, []byte(addr))
	}
	if err := scanner.Err(); err != nil {
		return addrs, stats, fmt.Errorf("read log line %d: %w", stats.Total+1, err)
	}
	return addrs, stats, nil
}

// ExtractAddr decodes one log line and returns its remote_addr. ok is false
// when the line is not a JSON object or the address is missing or empty.
func ExtractAddr(line []byte) (addr string, ok bool) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return "", false
	}
	if rec.RemoteAddr == "" {
		return "", false
	}
	return rec.RemoteAddr, true
}
