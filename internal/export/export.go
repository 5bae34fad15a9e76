// Package export renders board snapshots as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/nhle/kanban/internal/model"
)

const (
	summarySheet   = "Summary"
	maxSheetName   = 31
	dueDateLayout  = "2006-01-02"
	defaultSheet   = "Sheet1"
	untitledSheet  = "List"
	invalidInSheet = `:\/?*[]`
)

// cardHeader is the first row of every list sheet.
var cardHeader = []interface{}{"Order", "Title", "Priority", "Status", "Due Date", "Description"}

// WriteBoard writes snap as an .xlsx workbook to w: a summary sheet followed
// by one sheet per list, in board order, with one row per card.
func WriteBoard(w io.Writer, snap *model.BoardSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	total := 0
	for _, l := range snap.Lists {
		total += len(l.Cards)
	}
	summary := [][]interface{}{
		{"Board", snap.Board.Title},
		{"Lists", len(snap.Lists)},
		{"Cards", total},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, l := range snap.Lists {
		name := sheetName(l.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet for list %s: %w", l.ID, err)
		}
		if err := writeList(f, name, l.Cards, headerStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeList(f *excelize.File, sheet string, cards []model.Card, headerStyle int) error {
	if err := setRow(f, sheet, 1, cardHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling header of %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return fmt.Errorf("sizing columns of %s: %w", sheet, err)
	}

	for i, c := range cards {
		row := []interface{}{
			c.Order,
			c.Title,
			string(c.Priority),
			deref(c.Status),
			"",
			deref(c.Description),
		}
		if c.DueDate != nil {
			row[4] = c.DueDate.Format(dueDateLayout)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// FileName returns a file name for a board export, e.g. "q3-roadmap.xlsx".
func FileName(b model.Board) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(b.Title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		name = "board-" + b.ID
	}
	return name + ".xlsx"
}

// sheetName derives a unique, valid worksheet name from a list title.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidInSheet, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		name = untitledSheet
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
