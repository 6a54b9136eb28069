// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckSource(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "lengths and fingerprints are safe",
			body: `logger.Debug("input dropped", "dropped", len(raw), "max", s.maxLength)
	fmt.Printf("fingerprint: %s\n", crypto.Fingerprint(key))
	fmt.Printf("salt: %x\n", salt)`,
		},
		{
			name: "plaintext in printf",
			body: `fmt.Printf("opened: %s\n", plaintext)`,
			want: []string{`"plaintext"`},
		},
		{
			name: "surface buffer through string conversion",
			body: `logger.Debug("edit", "text", string(surface))`,
			want: []string{`"surface"`},
		},
		{
			name: "surface buffer on a struct",
			body: `_ = fmt.Sprintf("%v", m.surface)`,
			want: []string{`"m.surface"`},
		},
		{
			name: "display text in an error",
			body: `return fmt.Errorf("unexpected display %q", f.Display())`,
			want: []string{"Display()"},
		},
		{
			name: "hex encoded key",
			body: `log.Printf("%s", hex.EncodeToString(key))`,
			want: []string{`"key"`},
		},
		{
			name: "single typed character",
			body: `util.Logger.Info("typed", "ch", raw[0])`,
			want: []string{`"raw"`},
		},
		{
			name: "mask byte conversion",
			body: `fmt.Println([]byte(mask[:4]), outMask)`,
			want: []string{`"mask"`, `"outMask"`},
		},
		{
			name: "non-output calls are ignored",
			body: `_ = strings.Repeat(string(surface), 2)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package p\n\nfunc f() error {\n\t" + tt.body + "\n\treturn nil\n}\n"
			findings, err := checkSource(token.NewFileSet(), "p.go", src)
			if err != nil {
				t.Fatalf("checkSource failed: %v", err)
			}
			if len(findings) != len(tt.want) {
				t.Fatalf("got %d findings %v, want %d", len(findings), findings, len(tt.want))
			}
			for i, want := range tt.want {
				if !strings.Contains(findings[i].reason, want) {
					t.Errorf("finding %d = %q, want it to contain %s", i, findings[i].reason, want)
				}
			}
		})
	}
}

func TestScan_SkipsTestsAndAnalyzers(t *testing.T) {
	root := t.TempDir()
	leaky := "package p\n\nimport \"fmt\"\n\nfunc f(key []byte) { fmt.Println(key) }\n"
	for _, rel := range []string{"internal/a/a.go", "internal/a/a_test.go", "analysis/x/x.go", "cmd/b/testdata/t.go"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(leaky), 0600); err != nil {
			t.Fatal(err)
		}
	}

	findings, checked, err := scan(root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if checked != 1 || len(findings) != 1 {
		t.Errorf("checked=%d findings=%v, want one finding in internal/a/a.go", checked, findings)
	}
}
