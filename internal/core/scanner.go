package core

import "strings"

// Regions marks the boundaries found by ScanRegions. Lines before HeaderStart
// are preamble, [HeaderStart, DataStart) is the header block and DataStart
// onwards is the data block.
type Regions struct {
	HeaderStart int
	DataStart   int
}

// HeaderEnd is the exclusive end of the header block.
func (r Regions) HeaderEnd() int { return r.DataStart }

// SplitLines splits text on "\n", "\r\n" and lone "\r". A trailing line
// terminator does not yield an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// ScanRegions locates the header and data blocks. The header block starts at
// the first line beginning with delim; the data block starts at the first
// later line that begins with anything else. Blank lines have no first
// character and belong to neither search.
func ScanRegions(lines []string, delim byte) (Regions, error) {
	headerStart := -1
	for i, line := range lines {
		if len(line) > 0 && line[0] == delim {
			headerStart = i
			break
		}
	}
	if headerStart < 0 {
		return Regions{}, ErrNoHeaderFound
	}

	for i := headerStart + 1; i < len(lines); i++ {
		line := lines[i]
		if len(line) > 0 && line[0] != delim {
			return Regions{HeaderStart: headerStart, DataStart: i}, nil
		}
	}
	return Regions{}, ErrNoDataFound
}
