package cli

import (
	"os"
	"strings"
	"testing"
)

func TestDataDir(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{
			name: "xdg set",
			xdg:  "/custom/data",
			want: "/custom/data/zident",
		},
		{
			name: "xdg empty falls back to home",
			xdg:  "",
			want: "/.local/share/zident",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("XDG_DATA_HOME", tt.xdg)
			defer os.Unsetenv("XDG_DATA_HOME")

			got := DataDir()
			if tt.xdg != "" {
				if got != tt.want {
					t.Errorf("DataDir() = %s, want %s", got, tt.want)
				}
			} else {
				if !strings.HasSuffix(got, tt.want) {
					t.Errorf("DataDir() = %s, want suffix %s", got, tt.want)
				}
			}
		})
	}
}

func TestHasFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		flag string
		want bool
	}{
		{"present", []string{"--json", "--save"}, "--json", true},
		{"absent", []string{"--save"}, "--json", false},
		{"empty", nil, "--json", false},
		{"case insensitive", []string{"--JSON"}, "--json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasFlag(tt.args, tt.flag)
			if got != tt.want {
				t.Errorf("hasFlag(%v, %s) = %v, want %v", tt.args, tt.flag, got, tt.want)
			}
		})
	}
}

func TestIsFirstRun(t *testing.T) {
	dir := t.TempDir()
	if !IsFirstRun(dir) {
		t.Error("expected first run for empty dir")
	}

	os.WriteFile(dir+"/salt", []byte("test"), 0o600)
	if IsFirstRun(dir) {
		t.Error("expected not first run after salt exists")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"name", []string{"name"}},
		{"name,phone,ssn", []string{"name", "phone", "ssn"}},
		{" name , phone ,", []string{"name", "phone"}},
	}

	for _, tt := range tests {
		got := splitList(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLoadTablesEmbeddedDefault(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.Names.Surnames) == 0 {
		t.Error("embedded tables should carry surnames")
	}
}

func TestLoadTablesExternalDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(dir+"/jobs.yaml", []byte("jobs:\n  - 架构师\n"), 0o600)

	tables, err := LoadTables(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.JobTitles) != 1 || tables.JobTitles[0] != "架构师" {
		t.Errorf("unexpected job titles %v", tables.JobTitles)
	}
	if len(tables.Names.Surnames) != 0 {
		t.Error("external dir should not fall back to embedded tables")
	}
}

func TestLoadTablesMalformed(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(dir+"/names.yaml", []byte("surnames: ["), 0o600)

	if _, err := LoadTables(dir); err == nil {
		t.Error("malformed data file should fail")
	}
}
