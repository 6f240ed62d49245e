package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
	"github.com/StefanEhlert/chefsnumbers/internal/config"
	"github.com/StefanEhlert/chefsnumbers/internal/core"
)

func TestParseMappingFlags(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    core.FieldMapping
		wantErr bool
	}{
		{"none", nil, nil, false},
		{"single", []string{"Bezeichnung=name"}, core.FieldMapping{"Bezeichnung": core.FieldName}, false},
		{"unmap", []string{"Notiz="}, core.FieldMapping{"Notiz": ""}, false},
		{"header with equals", []string{"a=b=pricePerUnit"}, core.FieldMapping{"a=b": core.FieldPricePerUnit}, false},
		{"trimmed", []string{" Preis = bundlePrice "}, core.FieldMapping{"Preis": core.FieldBundlePrice}, false},
		{"no separator", []string{"Preis"}, nil, true},
		{"empty header", []string{"=name"}, nil, true},
		{"unknown field", []string{"Preis=cost"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMappingFlags(tt.pairs)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidMapping) {
					t.Fatalf("parseMappingFlags() error = %v, want ErrInvalidMapping", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMappingFlags() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseMappingFlags() = %v, want %v", got, tt.want)
			}
			for h, k := range tt.want {
				if g, ok := got[h]; !ok || g != k {
					t.Errorf("mapping[%q] = %q, want %q", h, g, k)
				}
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	result := &core.ImportResult{
		FileName:  "artikel.csv",
		Format:    core.FormatCSV,
		Encoding:  core.EncodingUTF8,
		Delimiter: ";",
		Headers:   []string{"Name", "Preis"},
		Mapping:   core.FieldMapping{"Name": core.FieldName, "Preis": core.FieldBundlePrice},
		Outcome:   core.ImportOutcome{ImportedCount: 2, SkippedCount: 1},
		Skipped:   []core.SkippedRow{{Line: 4, Name: "Gurke", Reason: core.ReasonDuplicate}},
		DryRun:    true,
	}

	var buf bytes.Buffer
	if err := printResult(&buf, result, "summary"); err != nil {
		t.Fatalf("printResult(summary) error = %v", err)
	}
	for _, want := range []string{"Would import:", "2 articles", "Gurke", "duplicate", "bundlePrice"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := printResult(&buf, result, "json"); err != nil {
		t.Fatalf("printResult(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"importedCount": 2`) {
		t.Errorf("json output missing importedCount:\n%s", buf.String())
	}

	if err := printResult(&buf, result, "xml"); err == nil {
		t.Error("printResult(xml) should fail")
	}
}

func TestMissingFile_ReportsUserMessage(t *testing.T) {
	cfg := config.ImportConfig{MaxFileSize: 1024, MaxConcurrent: 1, MaxWaitTime: time.Second}
	service := core.NewService(catalog.NewMemoryStore(nil, nil), cfg)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	path := filepath.Join(t.TempDir(), "fehlt.csv")

	_, importErr := importFile(cmd, service, path, core.ImportOptions{})
	_, previewErr := previewFile(cmd, service, path, core.ImportOptions{})

	for name, err := range map[string]error{"import": importErr, "preview": previewErr} {
		if err == nil {
			t.Fatalf("%s: expected error for missing file", name)
		}
		if !strings.Contains(err.Error(), "FILE004") {
			t.Errorf("%s error = %q, want code FILE004", name, err)
		}
	}
	if importErr.Error() != previewErr.Error() {
		t.Errorf("import error %q differs from preview error %q", importErr, previewErr)
	}
}
