package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"minutes/internal/docx"
	"minutes/internal/meeting"
	"minutes/internal/services"
)

// Format identifies how roster bytes are laid out.
type Format string

const (
	FormatUnknown    Format = ""
	FormatCSV        Format = "csv"
	FormatLines      Format = "lines"
	FormatDocx       Format = "docx"
	FormatStructured Format = "structured"
)

var requiredColumns = []string{"name", "email", "expertise"}

const utf8BOM = "\uFEFF"

// FormatError reports malformed roster input. Line is 1-based and zero when
// the problem is not tied to a single line.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Text != "":
		return fmt.Sprintf("invalid format in line %d: %q: %s", e.Line, e.Text, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("invalid format in line %d: %s", e.Line, e.Reason)
	default:
		return "invalid roster: " + e.Reason
	}
}

// Unwrap lets callers match FormatError with errors.Is(err, services.ErrFormat).
func (e *FormatError) Unwrap() error {
	return services.ErrFormat
}

// FormatFromPath maps a file extension to a roster format.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatLines
	case ".docx":
		return FormatDocx
	case ".yaml", ".yml", ".json":
		return FormatStructured
	default:
		return FormatUnknown
	}
}

// ReadFile reads and parses a roster file, choosing the format by extension.
// recognized is false for unsupported extensions.
func ReadFile(path string) (participants []meeting.Participant, recognized bool, err error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, true, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data, format)
}

// Parse converts raw roster bytes into participants. An unsupported format
// returns recognized=false and no error so callers can keep prior state. Any
// parse failure returns no participants at all.
func Parse(data []byte, format Format) (participants []meeting.Participant, recognized bool, err error) {
	switch format {
	case FormatCSV:
		participants, err = parseCSV(data)
	case FormatLines:
		participants, err = parseLines(splitLines(string(data)))
	case FormatDocx:
		var paragraphs []string
		paragraphs, err = docx.Paragraphs(data)
		if err != nil {
			return nil, true, &FormatError{Reason: err.Error()}
		}
		participants, err = parseLines(paragraphs)
	case FormatStructured:
		participants, err = parseStructured(data)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return participants, true, nil
}

func parseCSV(data []byte) ([]meeting.Participant, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(utf8BOM))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FormatError{Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvFormatError(err)
	}

	index := make(map[string]int, len(requiredColumns))
	for i, column := range header {
		key := strings.ToLower(strings.TrimSpace(column))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	var missing []string
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{
			Line:   1,
			Reason: "CSV file must contain 'name', 'email', and 'expertise' columns (missing " + strings.Join(missing, ", ") + ")",
		}
	}

	field := func(row []string, column string) string {
		i := index[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var participants []meeting.Participant
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvFormatError(err)
		}
		if blankRow(row) {
			continue
		}
		participants = append(participants, meeting.Participant{
			Name:      field(row, "name"),
			Email:     field(row, "email"),
			Expertise: field(row, "expertise"),
		})
	}
	return participants, nil
}

func csvFormatError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &FormatError{Line: parseErr.Line, Reason: parseErr.Err.Error()}
	}
	return &FormatError{Reason: err.Error()}
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func splitLines(content string) []string {
	content = strings.TrimPrefix(content, utf8BOM)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func parseLines(lines []string) ([]meeting.Participant, error) {
	var participants []meeting.Participant
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			return nil, &FormatError{
				Line:   i + 1,
				Text:   line,
				Reason: "expected 'name, email, expertise'",
			}
		}
		participants = append(participants, meeting.Participant{
			Name:      strings.TrimSpace(parts[0]),
			Email:     strings.TrimSpace(parts[1]),
			Expertise: strings.TrimSpace(parts[2]),
		})
	}
	return participants, nil
}

type structuredEntry struct {
	Name      *string `yaml:"name"`
	Email     *string `yaml:"email"`
	Expertise string  `yaml:"expertise"`
}

// parseStructured accepts a YAML (and therefore JSON) sequence of mappings,
// either at the top level or under a "participants" key.
func parseStructured(data []byte) ([]meeting.Participant, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}
	if root.Kind == 0 {
		return nil, nil
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.MappingNode {
		node = mappingValue(node, "participants")
		if node == nil {
			return nil, &FormatError{Reason: "expected a list of participants or a 'participants' key"}
		}
	}
	if node.Kind != yaml.SequenceNode {
		return nil, &FormatError{Line: node.Line, Reason: "expected a list of participants"}
	}

	participants := make([]meeting.Participant, 0, len(node.Content))
	for _, item := range node.Content {
		var entry structuredEntry
		if err := item.Decode(&entry); err != nil {
			return nil, &FormatError{Line: item.Line, Reason: err.Error()}
		}
		if entry.Name == nil || strings.TrimSpace(*entry.Name) == "" {
			return nil, &FormatError{Line: item.Line, Reason: "participant is missing 'name'"}
		}
		if entry.Email == nil {
			return nil, &FormatError{Line: item.Line, Reason: "participant is missing 'email'"}
		}
		participants = append(participants, meeting.Participant{
			Name:      strings.TrimSpace(*entry.Name),
			Email:     strings.TrimSpace(*entry.Email),
			Expertise: strings.TrimSpace(entry.Expertise),
		})
	}
	return participants, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if strings.EqualFold(node.Content[i].Value, key) {
			return node.Content[i+1]
		}
	}
	return nil
}
