// Package format renders generated identity batches into the supported
// output formats. Columns always follow the canonical field order;
// fields absent from every record are dropped unless an explicit field
// set pins them.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/zarlcorp/zident/internal/identity"
)

// Format identifies one output encoding.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	YAML     Format = "yaml"
	Table    Format = "table"
	SQL      Format = "sql"
	Markdown Format = "markdown"
	VCard    Format = "vcard"
)

// All lists the supported formats.
var All = []Format{JSON, CSV, YAML, Table, SQL, Markdown, VCard}

// Parse resolves a format name. Empty means table output.
func Parse(name string) (Format, error) {
	if name == "" {
		return Table, nil
	}
	for _, f := range All {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Detect guesses a format from a file extension. Unknown extensions
// fall back to JSON.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".csv":
		return CSV
	case ".yaml", ".yml":
		return YAML
	case ".sql":
		return SQL
	case ".md", ".markdown":
		return Markdown
	case ".vcf", ".vcard":
		return VCard
	case ".txt":
		return Table
	default:
		return JSON
	}
}

// Write renders ids to w in the given format. include carries the
// batch's effective field set; nil means "whatever is present".
func Write(w io.Writer, f Format, ids []identity.Identity, include map[identity.Field]bool) error {
	switch f {
	case JSON:
		return writeJSON(w, ids)
	case CSV:
		return writeCSV(w, ids, include)
	case YAML:
		return writeYAML(w, ids, include)
	case Table:
		return writeTable(w, ids, include)
	case SQL:
		return writeSQL(w, ids, include)
	case Markdown:
		return writeMarkdown(w, ids, include)
	case VCard:
		return writeVCard(w, ids)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// columns resolves the ordered column set: the explicit include set
// when given, otherwise the union of fields set on any record.
func columns(ids []identity.Identity, include map[identity.Field]bool) []identity.Field {
	var cols []identity.Field
	for _, f := range identity.AllFields() {
		if include != nil {
			if include[f] {
				cols = append(cols, f)
			}
			continue
		}
		for _, id := range ids {
			if _, ok := id.Value(f); ok {
				cols = append(cols, f)
				break
			}
		}
	}
	return cols
}

func writeJSON(w io.Writer, ids []identity.Identity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ids); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, ids []identity.Identity, include map[identity.Field]bool) error {
	cols := columns(ids, include)
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(cols))
	for _, id := range ids {
		for i, c := range cols {
			row[i], _ = id.Value(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeYAML emits an ordered document sequence. Marshaling the structs
// directly would lose field order and snake_case names, so the nodes
// are built by hand from the ordered pair list.
func writeYAML(w io.Writer, ids []identity.Identity, include map[identity.Field]bool) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, id := range ids {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range id.Pairs(include) {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: string(p.Field)},
				&yaml.Node{Kind: yaml.ScalarNode, Value: p.Value},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, ids []identity.Identity, include map[identity.Field]bool) error {
	// one record reads better as a field/value card
	if len(ids) == 1 {
		t := table.New().Headers("field", "value")
		for _, p := range ids[0].Pairs(include) {
			t.Row(string(p.Field), p.Value)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}

	cols := columns(ids, include)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}

	t := table.New().Headers(header...)
	for _, id := range ids {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i], _ = id.Value(c)
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeSQL(w io.Writer, ids []identity.Identity, include map[identity.Field]bool) error {
	cols := columns(ids, include)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}

	for _, id := range ids {
		values := make([]string, len(cols))
		for i, c := range cols {
			v, _ := id.Value(c)
			values[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		_, err := fmt.Fprintf(w, "INSERT INTO identities (%s) VALUES (%s);\n",
			strings.Join(names, ", "), strings.Join(values, ", "))
		if err != nil {
			return fmt.Errorf("write sql: %w", err)
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, ids []identity.Identity, include map[identity.Field]bool) error {
	cols := columns(ids, include)

	var b strings.Builder
	b.WriteString("|")
	for _, c := range cols {
		b.WriteString(" " + string(c) + " |")
	}
	b.WriteString("\n|")
	for range cols {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, id := range ids {
		b.WriteString("|")
		for _, c := range cols {
			v, _ := id.Value(c)
			b.WriteString(" " + strings.ReplaceAll(v, "|", "\\|") + " |")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeVCard(w io.Writer, ids []identity.Identity) error {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
		if id.Name != "" {
			fmt.Fprintf(&b, "FN:%s\n", id.Name)
			fmt.Fprintf(&b, "N:%s;%s;;;\n", id.LastName, id.FirstName)
		}
		if id.Phone != "" {
			fmt.Fprintf(&b, "TEL;TYPE=CELL:%s\n", id.Phone)
		}
		if id.Email != "" {
			fmt.Fprintf(&b, "EMAIL:%s\n", id.Email)
		}
		if id.Address != "" {
			fmt.Fprintf(&b, "ADR;TYPE=HOME:;;%s;%s;%s;%s;%s\n",
				id.Address, id.City, id.State, id.Zipcode, id.Country)
		}
		if id.Company != "" {
			fmt.Fprintf(&b, "ORG:%s\n", id.Company)
		}
		if id.JobTitle != "" {
			fmt.Fprintf(&b, "TITLE:%s\n", id.JobTitle)
		}
		if id.Birthdate != "" {
			fmt.Fprintf(&b, "BDAY:%s\n", strings.ReplaceAll(id.Birthdate, "-", ""))
		}
		b.WriteString("END:VCARD\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
