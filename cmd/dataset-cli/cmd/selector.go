package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backbone81/dataset/pkg/dataset"
)

// selector describes which records the dump command prints.
type selector struct {
	// Set for a single position.
	position *int

	// Set for a comma separated list of positions.
	positions []int

	// Set for a slice.
	slice *[3]int
}

// parseSelector parses an empty selector (all records), a single position like "-1", a list of positions like
// "1,5,3" or a slice like "10:-10:2". Omitted slice bounds are allowed.
func parseSelector(text string) (selector, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return selector{slice: &[3]int{dataset.Omit, dataset.Omit, dataset.Omit}}, nil
	case strings.Contains(text, ":"):
		parts := strings.Split(text, ":")
		if len(parts) > 3 {
			return selector{}, fmt.Errorf("invalid slice %q", text)
		}
		bounds := [3]int{dataset.Omit, dataset.Omit, dataset.Omit}
		for i, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			value, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return selector{}, fmt.Errorf("invalid slice %q: %w", text, err)
			}
			bounds[i] = value
		}
		return selector{slice: &bounds}, nil
	case strings.Contains(text, ","):
		var positions []int
		for part := range strings.SplitSeq(text, ",") {
			value, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return selector{}, fmt.Errorf("invalid position list %q: %w", text, err)
			}
			positions = append(positions, value)
		}
		return selector{positions: positions}, nil
	default:
		value, err := strconv.Atoi(text)
		if err != nil {
			return selector{}, fmt.Errorf("invalid position %q: %w", text, err)
		}
		return selector{position: &value}, nil
	}
}

// selectRecords reads the records the selector describes.
func selectRecords(reader *dataset.Reader[any], sel selector) ([]any, error) {
	switch {
	case sel.position != nil:
		record, err := reader.Get(*sel.position)
		if err != nil {
			return nil, err
		}
		return []any{record}, nil
	case sel.positions != nil:
		return reader.GetMany(sel.positions)
	default:
		return reader.GetSlice(sel.slice[0], sel.slice[1], sel.slice[2])
	}
}
