// Package wordlist loads newline-separated key files, such as
// /usr/share/dict/words, into key -> line number maps.
package wordlist

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// DefaultPath is the system dictionary used when no path is given.
const DefaultPath = "/usr/share/dict/words"

// Load memory-maps the file at path and parses it with Parse.
// An empty file yields an empty map.
func Load(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat word list: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("open word list: %s is a directory", path)
	}
	if stat.Size() == 0 {
		// mmap of a zero-length file fails on most platforms
		return map[string]int{}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap word list: %w", err)
	}
	adviseSequential(mm)

	words := Parse(mm)
	if err := mm.Unmap(); err != nil {
		return nil, fmt.Errorf("unmap word list: %w", err)
	}
	return words, nil
}

// Parse maps each line of data, with surrounding whitespace trimmed, to its
// zero-based line number. Blank lines are skipped but still counted. When a
// word appears more than once, the last line wins.
//
// The returned strings are copies; data may be released afterwards.
func Parse(data []byte) map[string]int {
	words := make(map[string]int, bytes.Count(data, []byte{'\n'})+1)
	line := 0
	for len(data) > 0 {
		var raw []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			raw, data = data[:i], data[i+1:]
		} else {
			raw, data = data, nil
		}
		if word := bytes.TrimSpace(raw); len(word) > 0 {
			words[string(word)] = line
		}
		line++
	}
	return words
}
