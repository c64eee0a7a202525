package bootstrap

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile populates the cache from path, a newline-delimited file of
// "<address> <unix-seconds>" records written by SaveFile. A missing
// file is treated as an empty cache, not an error. A corrupted file —
// unreadable, or any line that doesn't parse — is discarded with a
// warning logged and an empty cache is returned in its place, never a
// panic, per §4.E ("a corrupted file is discarded with a
// warning, never a panic").
func LoadFile(path string, capacity int) *Cache {
	c := New(capacity)

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("bootstrap: could not open cache file %s: %v", path, err)
		}
		return c
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			log.Warnf("bootstrap: discarding corrupted cache file %s: malformed line %d", path, lineNo)
			return New(capacity)
		}
		seconds, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			log.Warnf("bootstrap: discarding corrupted cache file %s: bad timestamp on line %d", path, lineNo)
			return New(capacity)
		}
		if err := c.Insert(fields[0], time.Unix(seconds, 0)); err != nil {
			log.Warnf("bootstrap: discarding corrupted cache file %s: duplicate address on line %d", path, lineNo)
			return New(capacity)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warnf("bootstrap: discarding corrupted cache file %s: %v", path, err)
		return New(capacity)
	}
	return c
}

// SaveFile writes the cache's current entries to path, one
// "<address> <unix-seconds>" record per line.
func (c *Cache) SaveFile(path string) error {
	entries := c.Entries()

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Address)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(e.LastSuccess.Unix(), 10))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}
