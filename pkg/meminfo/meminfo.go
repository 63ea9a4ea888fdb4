package meminfo

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultLocation is where Linux exposes the kernel memory counters.
const DefaultLocation = "/proc/meminfo"

// Snapshot holds one read of the memory counters, all values in kilobytes.
// It is immutable after parsing. Buffers defaults to zero when the source
// does not report it, MemAvailable stays nil on kernels that predate it.
type Snapshot struct {
	TotalKB     uint64
	FreeKB      uint64
	CachedKB    uint64
	BuffersKB   uint64
	AvailableKB *uint64

	hasTotal  bool
	hasFree   bool
	hasCached bool
}

// Complete reports whether the mandatory counters (MemTotal, MemFree and
// Cached) were all present in the source.
func (s *Snapshot) Complete() bool {
	return s.hasTotal && s.hasFree && s.hasCached
}

// Reader reads memory counters from a meminfo style source.
type Reader struct {
	// Location overrides the source path, it defaults to /proc/meminfo.
	Location string
}

// Path returns the effective source location.
func (r *Reader) Path() string {
	if r.Location == "" {
		return DefaultLocation
	}

	return r.Location
}

// Read opens the source and parses it into a Snapshot. Open or read errors
// are returned untouched so callers can embed them in their status message.
func (r *Reader) Read() (*Snapshot, error) {
	file, err := os.Open(r.Path())
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads "Key: value kB" lines. Unknown keys, blank lines and
// unparseable values are skipped.
func Parse(input io.Reader) (*Snapshot, error) {
	snapshot := &Snapshot{}

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			snapshot.TotalKB = value
			snapshot.hasTotal = true
		case "MemFree:":
			snapshot.FreeKB = value
			snapshot.hasFree = true
		case "Cached:":
			snapshot.CachedKB = value
			snapshot.hasCached = true
		case "Buffers:":
			snapshot.BuffersKB = value
		case "MemAvailable:":
			avail := value
			snapshot.AvailableKB = &avail
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return snapshot, nil
}
