// Package cli implements zident's command-line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"golang.org/x/term"

	"github.com/zarlcorp/zident/internal/format"
	"github.com/zarlcorp/zident/internal/identity"
	"github.com/zarlcorp/zident/internal/refdata"
	"github.com/zarlcorp/zident/internal/web"
)

// DataDir returns the default data directory for zident.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zident"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zident"
	}
	return home + "/.local/share/zident"
}

// ReadPassword prompts for a password on stderr and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("master password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// IsFirstRun checks whether the store has been initialized.
func IsFirstRun(dir string) bool {
	_, err := os.Stat(dir + "/salt")
	return err != nil
}

// OpenStore prompts for a password and opens the store, returning both
// the store and the saved-records collection.
func OpenStore(dir string) (*zstore.Store, *zstore.Collection[identity.Record], error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	var pass string
	var err error
	if IsFirstRun(dir) {
		pass, err = ReadNewPassword(os.Stderr)
	} else {
		pass, err = ReadPassword("master password: ", os.Stderr)
	}
	if err != nil {
		return nil, nil, err
	}

	fsys := zfilesystem.NewOSFileSystem(dir)
	s, err := zstore.Open(fsys, []byte(pass))
	if err != nil {
		return nil, nil, err
	}

	col, err := zstore.NewCollection[identity.Record](s, "identities")
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	return s, col, nil
}

// LoadTables resolves the reference tables: the embedded defaults, or
// an external data directory when one is given.
func LoadTables(dir string) (*refdata.Store, error) {
	if dir == "" {
		return refdata.Default()
	}
	tables, err := refdata.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load reference data from %s: %w", dir, err)
	}
	return tables, nil
}

// CmdGenerate generates one or more identity records.
func CmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("n", 1, "number of records")
	seed := fs.Uint64("seed", 0, "seed for reproducible output")
	include := fs.String("include", "", "comma-separated fields to generate")
	exclude := fs.String("exclude", "", "comma-separated fields to skip")
	formatName := fs.String("format", "", "output format: json, csv, yaml, table, sql, markdown, vcard")
	output := fs.String("o", "", "output file, format detected from the extension")
	dataDir := fs.String("data", "", "reference data directory overriding the embedded tables")
	save := fs.Bool("save", false, "save generated records to the encrypted store")
	fs.Parse(args)

	cfg := identity.Config{
		Count:         *count,
		IncludeFields: splitList(*include),
		ExcludeFields: splitList(*exclude),
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = seed
		}
	})
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	tables, err := LoadTables(*dataDir)
	if err != nil {
		fail(err)
	}

	g := identity.NewGenerator(tables, cfg.Seed)
	batch, err := g.GenerateBatch(cfg)
	if err != nil {
		fail(err)
	}

	f := format.Detect(*output)
	if *formatName != "" || *output == "" {
		if f, err = format.Parse(*formatName); err != nil {
			fail(err)
		}
	}

	w := io.Writer(os.Stdout)
	if *output != "" {
		out, err := os.Create(*output)
		if err != nil {
			fail(fmt.Errorf("create %s: %w", *output, err))
		}
		defer out.Close()
		w = out
	}

	if err := format.Write(w, f, batch, cfg.EffectiveFields()); err != nil {
		fail(err)
	}

	if *save {
		saveBatch(batch)
	}
}

// CmdFields lists the generatable field names in canonical order.
func CmdFields() {
	for _, f := range identity.AllFields() {
		fmt.Println(f)
	}
}

// CmdPreview prints one throwaway record as a table.
func CmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	dataDir := fs.String("data", "", "reference data directory overriding the embedded tables")
	fs.Parse(args)

	tables, err := LoadTables(*dataDir)
	if err != nil {
		fail(err)
	}

	g := identity.NewGenerator(tables, nil)
	id, err := g.Generate(identity.Config{})
	if err != nil {
		fail(err)
	}
	if err := format.Write(os.Stdout, format.Table, []identity.Identity{id}, nil); err != nil {
		fail(err)
	}
}

// CmdServe runs the JSON API server.
func CmdServe(ctx context.Context, version string, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8642", "listen address")
	dataDir := fs.String("data", "", "reference data directory overriding the embedded tables")
	fs.Parse(args)

	tables, err := LoadTables(*dataDir)
	if err != nil {
		fail(err)
	}

	if err := web.Run(ctx, *addr, version, tables); err != nil {
		fail(err)
	}
}

// CmdList lists all saved records.
func CmdList(args []string) {
	asJSON := hasFlag(args, "--json")

	s, col, err := OpenStore(DataDir())
	if err != nil {
		fail(err)
	}
	defer s.Close()

	recs, err := col.List()
	if err != nil {
		fail(fmt.Errorf("list: %w", err))
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	if len(recs) == 0 {
		fmt.Println("no saved identities")
		return
	}

	if asJSON {
		printJSON(recs)
		return
	}

	for _, r := range recs {
		fmt.Printf("  %-36s %-10s %-15s %s\n",
			r.ID,
			r.Identity.Name,
			r.Identity.Phone,
			r.CreatedAt.Format("2006-01-02"),
		)
	}
}

// CmdForget deletes a saved record by ID.
func CmdForget(id string) {
	s, col, err := OpenStore(DataDir())
	if err != nil {
		fail(err)
	}
	defer s.Close()

	if err := col.Delete(id); err != nil {
		fail(fmt.Errorf("forget: %w", err))
	}
	fmt.Printf("deleted %s\n", id)
}

func saveBatch(batch []identity.Identity) {
	s, col, err := OpenStore(DataDir())
	if err != nil {
		fail(err)
	}
	defer s.Close()

	now := time.Now()
	for _, id := range batch {
		rec := identity.Record{ID: uuid.NewString(), CreatedAt: now, Identity: id}
		if err := col.Put(rec.ID, rec); err != nil {
			fail(fmt.Errorf("save: %w", err))
		}
	}
	fmt.Fprintf(os.Stderr, "saved %d\n", len(batch))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(fmt.Errorf("encode json: %w", err))
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "zident: %v\n", err)
	os.Exit(1)
}
