package casetab

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadDeltas reads a pre-parsed case-delta listing into a dense raw table of
// MaxDomain entries. Each line holds "<hex code point>;<decimal delta>";
// blank lines and lines starting with '#' are skipped. Code points without a
// line keep delta zero. Parsing of UnicodeData.txt itself happens upstream.
func LoadDeltas(r io.Reader) ([]int16, error) {
	raw := make([]int16, MaxDomain)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.SplitN(text, ";", 2)
		if len(fields) != 2 {
			return nil, errors.Errorf("line %d: expected \"<codepoint>;<delta>\"", line)
		}

		cp, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 16, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: code point", line)
		}
		delta, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: delta", line)
		}

		raw[cp] = int16(delta)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read deltas")
	}
	return raw, nil
}
