package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/2beens/mmtreino/pkg"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var (
	ErrWorkbookNotFound = errors.New("workbook not found")

	leadingIntRegex = regexp.MustCompile(`^[+-]?\d+`)
)

// Row is one spreadsheet row keyed by the header of its column.
type Row map[string]string

func (r Row) Text(column string) string {
	return strings.TrimSpace(r[column])
}

// TextPtr returns nil for blank cells.
func (r Row) TextPtr(column string) *string {
	return pkg.TrimmedOrNil(r[column])
}

// Int parses the leading integer of a cell, e.g. "3" or "3 séries". Blank
// or non numeric cells give nil.
func (r Row) Int(column string) *int {
	m := leadingIntRegex.FindString(r.Text(column))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// FindWorkbook returns the first .xlsx file in dir, in name order, that has
// every one of the given sheets.
func FindWorkbook(dir string, sheets ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read data dir %s: %w", dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xlsx") {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	sort.Strings(candidates)

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		ok, err := hasSheets(path, sheets)
		if err != nil {
			log.Warnf("importer: skipping %s: %s", name, err)
			continue
		}
		if ok {
			return path, nil
		}
	}

	found := "(none)"
	if len(candidates) > 0 {
		found = strings.Join(candidates, ", ")
	}
	return "", fmt.Errorf(
		"%w: no .xlsx in %s has sheets [%s], files: %s",
		ErrWorkbookNotFound, dir, strings.Join(sheets, ", "), found,
	)
}

func hasSheets(path string, sheets []string) (bool, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close %s: %s", path, err)
		}
	}()

	present := map[string]bool{}
	for _, s := range f.GetSheetList() {
		present[s] = true
	}
	for _, s := range sheets {
		if !present[s] {
			return false, nil
		}
	}
	return true, nil
}

// ReadSheet reads a sheet whose first row holds the column headers. Rows
// with no values are skipped.
func ReadSheet(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close %s: %s", path, err)
		}
	}()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf(
			"sheet %q of %s (sheets: %s): %w",
			sheet, filepath.Base(path), strings.Join(f.GetSheetList(), ", "), err,
		)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var out []Row
	for _, cells := range rows[1:] {
		row := Row{}
		empty := true
		for i, h := range header {
			if h == "" || i >= len(cells) {
				continue
			}
			row[h] = cells[i]
			if strings.TrimSpace(cells[i]) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}
