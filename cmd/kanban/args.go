package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/kanban/internal/model"
)

const dateLayout = "2006-01-02"

// parseOrderArgs parses reorder arguments of the form id=order or, for
// cards, id=order@listID.
func parseOrderArgs(args []string, allowList bool) ([]model.OrderUpdate, error) {
	updates := make([]model.OrderUpdate, 0, len(args))
	for _, arg := range args {
		id, rest, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, withCode(exitUsage, fmt.Errorf("invalid position %q, want id=order", arg))
		}

		var listID *string
		if pos, list, hasList := strings.Cut(rest, "@"); hasList {
			if !allowList || list == "" {
				return nil, withCode(exitUsage, fmt.Errorf("invalid position %q", arg))
			}
			rest, listID = pos, &list
		}

		order, err := strconv.Atoi(rest)
		if err != nil || order < 0 {
			return nil, withCode(exitUsage, fmt.Errorf("invalid order in %q", arg))
		}
		updates = append(updates, model.OrderUpdate{ID: strings.TrimSpace(id), Order: order, ListID: listID})
	}
	return updates, nil
}

// parseOptionalDate parses a YYYY-MM-DD flag value. Empty means no date.
func parseOptionalDate(flag, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("invalid --%s: %w", flag, err))
	}
	return &t, nil
}

func optionalString(v string) *string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}
