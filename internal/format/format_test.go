package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/zarlcorp/zident/internal/identity"
)

func sampleBatch() []identity.Identity {
	return []identity.Identity{
		{Name: "王伟", LastName: "王", FirstName: "伟", Phone: "13812345678", Email: "wang123@qq.com"},
		{Name: "李娜", LastName: "李", FirstName: "娜", Phone: "15987654321", Email: "li456@163.com"},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Table, false},
		{"json", JSON, false},
		{"CSV", CSV, false},
		{"vcard", VCard, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.json", JSON},
		{"out.csv", CSV},
		{"out.yml", YAML},
		{"out.yaml", YAML},
		{"out.sql", SQL},
		{"out.md", Markdown},
		{"out.vcf", VCard},
		{"out.txt", Table},
		{"out", JSON},
	}
	for _, tt := range tests {
		if got := Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, sampleBatch(), nil); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d records, want 2", len(decoded))
	}
	if decoded[0]["name"] != "王伟" {
		t.Errorf("first record name = %v", decoded[0]["name"])
	}
	if _, present := decoded[0]["ssn"]; present {
		t.Error("unset fields should be omitted from json")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, CSV, sampleBatch(), nil); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	// canonical order puts name first, phone before email
	if rows[0][0] != "name" {
		t.Errorf("first column = %q, want name", rows[0][0])
	}
	var phoneIdx, emailIdx int
	for i, h := range rows[0] {
		switch h {
		case "phone":
			phoneIdx = i
		case "email":
			emailIdx = i
		}
	}
	if phoneIdx >= emailIdx {
		t.Error("phone column should precede email")
	}
	if rows[1][phoneIdx] != "13812345678" {
		t.Errorf("phone cell = %q", rows[1][phoneIdx])
	}
}

func TestWriteCSVWithExplicitFields(t *testing.T) {
	include := map[identity.Field]bool{identity.FieldName: true, identity.FieldSSN: true}
	var buf bytes.Buffer
	if err := Write(&buf, CSV, sampleBatch(), include); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows[0]) != 2 || rows[0][0] != "name" || rows[0][1] != "ssn" {
		t.Errorf("header = %v, want [name ssn]", rows[0])
	}
	if rows[1][1] != "" {
		t.Errorf("unset requested column should be empty, got %q", rows[1][1])
	}
}

func TestWriteYAMLOrdered(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, YAML, sampleBatch(), nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: 王伟") {
		t.Errorf("yaml missing name: %s", out)
	}
	if strings.Index(out, "phone:") > strings.Index(out, "email:") {
		t.Error("yaml keys out of canonical order")
	}
}

func TestWriteSQL(t *testing.T) {
	ids := []identity.Identity{{Name: "欧阳'娜", Phone: "13800000000"}}
	var buf bytes.Buffer
	if err := Write(&buf, SQL, ids, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "INSERT INTO identities (name, phone) VALUES (") {
		t.Errorf("unexpected sql: %s", out)
	}
	if !strings.Contains(out, "欧阳''娜") {
		t.Error("single quotes should be doubled")
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Markdown, sampleBatch(), nil); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + separator + 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("missing separator row: %s", lines[1])
	}
}

func TestWriteVCard(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, VCard, sampleBatch(), nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "BEGIN:VCARD") != 2 || strings.Count(out, "END:VCARD") != 2 {
		t.Errorf("expected two vcards:\n%s", out)
	}
	if !strings.Contains(out, "TEL;TYPE=CELL:13812345678") {
		t.Error("missing phone line")
	}
	if !strings.Contains(out, "N:王;伟;;;") {
		t.Error("missing structured name line")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Table, sampleBatch()[:1], nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "王伟") {
		t.Errorf("table missing record data:\n%s", buf.String())
	}
}
