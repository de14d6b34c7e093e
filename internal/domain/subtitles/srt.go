package subtitles

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/forPelevin/asrprep/internal/types"
)

var ErrDuplicateIndex = errors.New("duplicate cue index")

var (
	reIndex    = regexp.MustCompile(`^\d+$`)
	reTimecode = regexp.MustCompile(`\d+:\d+:\d+,\d+`)
)

// ReadCues reads a subtitle file and parses its cues.
func ReadCues(path string) ([]types.Cue, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	text := strings.ReplaceAll(string(b), "\r\n", "\n")
	return ParseCues(strings.Split(text, "\n"))
}

// ParseCues scans subtitle lines for blocks of index line, timing line and
// one text line. Blocks that don't fit that shape, and blocks whose end is not
// after their start, are skipped; a timing token that isn't a valid
// HH:MM:SS,mmm is an error.
func ParseCues(lines []string) ([]types.Cue, error) {
	var out []types.Cue
	seen := make(map[int]struct{})
	for i := 0; i+2 < len(lines); i++ {
		idx, ok := parseIndex(lines[i])
		if !ok {
			continue
		}
		tokens := reTimecode.FindAllString(lines[i+1], 2)
		if len(tokens) < 2 {
			continue
		}
		start, err := ParseTimecode(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("cue %d: start: %w", idx, err)
		}
		end, err := ParseTimecode(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("cue %d: end: %w", idx, err)
		}
		if end <= start {
			continue
		}
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, idx)
		}
		seen[idx] = struct{}{}
		out = append(out, types.Cue{
			Index:   idx,
			StartMS: start,
			EndMS:   end,
			Text:    strings.TrimRight(lines[i+2], "\r\n"),
		})
	}
	return out, nil
}

func parseIndex(line string) (int, bool) {
	line = strings.TrimLeft(line, "\ufeff")
	line = strings.TrimRight(line, "\r\n")
	if !reIndex.MatchString(line) {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
