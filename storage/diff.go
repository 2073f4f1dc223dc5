package storage

import (
	"context"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff between the newest backup of <module>/<id>
// and its current content. Removed lines start with "-", added lines with
// "+" and unchanged lines with a space. The diff is empty when the item
// has no backup or the content did not change.
func (s *Store) Diff(ctx context.Context, module, id string) (string, error) {
	current, err := s.Fetch(ctx, module, id)
	if err != nil {
		return "", err
	}
	history, err := s.History(ctx, module, id)
	if err != nil || len(history) == 0 {
		return "", err
	}
	previous, err := s.Open(ctx, history[0])
	if err != nil {
		return "", err
	}
	return DiffText(string(previous), string(current)), nil
}

// DiffText returns a line diff from a to b in the format of Diff.
func DiffText(a, b string) string {
	if a == b {
		return ""
	}
	diffCfg := diffpatch.New()
	ca, cb, lines := diffCfg.DiffLinesToChars(a, b)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, diff := range diffs {
		prefix := " "
		switch diff.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
