// Package roster implements CSV roster import: parsing, header-to-field
// mapping heuristics, and batch ingestion of patients and facilities.
package roster

import (
	"errors"
	"regexp"
	"strings"
)

// Field is a roster import target. Columns mapped to FieldIgnore are
// dropped.
type Field string

const (
	FieldName       Field = "name"
	FieldKana       Field = "kana"
	FieldBirthDate  Field = "birthDate"
	FieldGender     Field = "gender"
	FieldFacility   Field = "facility"
	FieldRoomNumber Field = "room_number"
	FieldID         Field = "id"
	FieldIgnore     Field = "ignore"
)

var (
	ErrTooFewLines   = errors.New("csv needs a header line and at least one data line")
	ErrNameNotMapped = errors.New("name field must be mapped to a column")
)

// Mapping assigns an import field to each column index. Unlisted columns
// are ignored.
type Mapping map[int]Field

// Validate rejects a mapping with no name column. Name is the only
// required field.
func (m Mapping) Validate() error {
	for _, f := range m {
		if f == FieldName {
			return nil
		}
	}
	return ErrNameNotMapped
}

// Preview is the parse result shown before import: headers, up to five
// sample rows, and the guessed column mapping for the user to adjust.
type Preview struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Mapping Mapping    `json:"mapping"`
}

const previewRows = 5

// Parse splits raw CSV text into a preview. Accepts \n and \r\n line
// endings and skips blank lines. Cell splitting is a naive comma split
// with surrounding-quote stripping; embedded commas inside quoted cells
// are a known limitation, kept so that well-formed simple CSV
// round-trips exactly.
func Parse(content string) (*Preview, error) {
	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	headers := splitCells(lines[0])
	mapping := make(Mapping, len(headers))
	for i, h := range headers {
		mapping[i] = GuessField(h)
	}

	end := 1 + previewRows
	if end > len(lines) {
		end = len(lines)
	}
	rows := make([][]string, 0, end-1)
	for _, line := range lines[1:end] {
		rows = append(rows, splitCells(line))
	}
	return &Preview{Headers: headers, Rows: rows, Mapping: mapping}, nil
}

// GuessField maps a CSV header to an import field. Matching is
// case-insensitive, checks each field's keywords in a fixed priority
// order, and falls back to ignore.
func GuessField(header string) Field {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "氏名") || strings.Contains(h, "名前") || h == "name":
		return FieldName
	case strings.Contains(h, "カナ") || strings.Contains(h, "ふりがな") || h == "kana":
		return FieldKana
	case strings.Contains(h, "生年月日") || strings.Contains(h, "誕生日") || strings.Contains(h, "birth"):
		return FieldBirthDate
	case strings.Contains(h, "性別") || h == "gender" || h == "sex":
		return FieldGender
	case strings.Contains(h, "施設") || strings.Contains(h, "病院") || h == "facility":
		return FieldFacility
	case strings.Contains(h, "部屋") || strings.Contains(h, "居室") || h == "room":
		return FieldRoomNumber
	case strings.Contains(h, "カルテ") || strings.Contains(h, "id") || h == "no":
		return FieldID
	}
	return FieldIgnore
}

var lineSplitRe = regexp.MustCompile(`\r\n|\n`)

func splitLines(content string) []string {
	var lines []string
	for _, line := range lineSplitRe.Split(content, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, `"`)
		c = strings.TrimSuffix(c, `"`)
		cells[i] = c
	}
	return cells
}
