package rollup

import (
	"fmt"
	"strings"
)

// WindowOffset anchors a rolling window to the start or end of a bucket.
type WindowOffset string

const (
	OffsetEnd   WindowOffset = "end"
	OffsetStart WindowOffset = "start"
)

// Unbounded marks an open side of a rolling window.
const Unbounded = "unbounded"

// RollingWindow describes which base rows count toward a bucket. Trailing
// and Leading are intervals ("7 days"), Unbounded, or empty for none.
type RollingWindow struct {
	Trailing string
	Leading  string
	Offset   WindowOffset
}

// CumulativeWindow is the running-total window: every row up to the end of
// the bucket.
var CumulativeWindow = RollingWindow{Trailing: Unbounded}

// DateJoinCondition derives the join condition relating column to the
// date series bounds for window w.
func (c *Compiler) DateJoinCondition(column string, w RollingWindow) (string, error) {
	offset := w.Offset
	if offset == "" {
		offset = OffsetEnd
	}
	if offset != OffsetEnd && offset != OffsetStart {
		return "", fmt.Errorf("invalid rolling window offset %q", w.Offset)
	}

	d := c.dialect
	series := TimeDimension{}.DateSeriesAlias()
	dateFrom := series + "." + d.EscapeColumnName("date_from")
	dateTo := series + "." + d.EscapeColumnName("date_to")

	var conditions []string
	if w.Trailing != Unbounded {
		anchor, sign := dateTo, ">"
		if offset == OffsetStart {
			anchor, sign = dateFrom, ">="
		}
		bound, err := c.windowBound(anchor, w.Trailing, d.SubtractInterval)
		if err != nil {
			return "", fmt.Errorf("trailing window: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("%s %s %s", column, sign, bound))
	}
	if w.Leading != Unbounded {
		anchor, sign := dateTo, "<="
		if offset == OffsetStart {
			anchor, sign = dateFrom, "<"
		}
		bound, err := c.windowBound(anchor, w.Leading, d.AddInterval)
		if err != nil {
			return "", fmt.Errorf("leading window: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("%s %s %s", column, sign, bound))
	}
	if len(conditions) == 0 {
		return "1 = 1", nil
	}
	return strings.Join(conditions, " AND "), nil
}

func (c *Compiler) windowBound(anchor, interval string, shift func(string, Interval) (string, error)) (string, error) {
	if interval == "" {
		return anchor, nil
	}
	iv, err := ParseInterval(interval)
	if err != nil {
		return "", err
	}
	return shift(anchor, iv)
}
