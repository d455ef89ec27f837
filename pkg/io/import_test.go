package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flametower/pkg/errors"
)

func TestReadFolded(t *testing.T) {
	input := `# sampled by perf
main;parse;alloc 20
main;write 38

main;parse 10
main;parse;alloc 5
log 2
`
	root, err := ReadFolded(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFolded() error: %v", err)
	}

	if root.Name != FoldedRoot || root.Value != 75 {
		t.Errorf("root = %s %d, want %s 75", root.Name, root.Value, FoldedRoot)
	}
	if len(root.Children) != 2 {
		t.Fatalf("len(root.Children) = %d, want 2", len(root.Children))
	}

	main := root.Children[0]
	if main.Name != "main" || main.Value != 73 {
		t.Errorf("main = %s %d, want main 73", main.Name, main.Value)
	}
	parse := main.Children[0]
	if parse.Name != "parse" || parse.Value != 35 {
		t.Errorf("parse = %s %d, want parse 35", parse.Name, parse.Value)
	}
	if got := parse.Self(); got != 10 {
		t.Errorf("parse.Self() = %d, want 10", got)
	}
	if len(parse.Children) != 1 || parse.Children[0].Value != 25 {
		t.Errorf("parse children = %+v, want one alloc of 25", parse.Children)
	}
	if main.Children[1].Name != "write" {
		t.Errorf("second child = %s, want write", main.Children[1].Name)
	}
}

func TestReadFoldedErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no count", "main;parse\n"},
		{"bad count", "main;parse abc\n"},
		{"negative", "main -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFolded(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidTree) {
				t.Errorf("ReadFolded(%q) error = %v, want %s", tt.input, err, errors.ErrCodeInvalidTree)
			}
			if err != nil && !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}

func TestReadFoldedOverflow(t *testing.T) {
	input := "main;a 9223372036854775807\nmain;b 1\n"
	_, err := ReadFolded(strings.NewReader(input))
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Fatalf("ReadFolded() error = %v, want %s", err, errors.ErrCodeInvalidTree)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name line 2", err)
	}
}

func TestReadJSON(t *testing.T) {
	t.Run("bare node", func(t *testing.T) {
		doc, err := ReadJSON(strings.NewReader(`{"name":"root","value":10,"children":[{"name":"a","value":4}]}`))
		if err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		if doc.Tree.Name != "root" || len(doc.Tree.Children) != 1 {
			t.Errorf("Tree = %+v", doc.Tree)
		}
		if doc.Unit != "" {
			t.Errorf("Unit = %q, want empty", doc.Unit)
		}
	})

	t.Run("envelope", func(t *testing.T) {
		doc, err := ReadJSON(strings.NewReader(`{"tree":{"name":"root","value":10},"unit":"byte","total":40,"threadSplit":{"worker-1":10}}`))
		if err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		if doc.Tree.Value != 10 || doc.Unit != "byte" || doc.Total != 40 {
			t.Errorf("doc = %+v", doc)
		}
		if doc.ThreadSplit["worker-1"] != 10 {
			t.Errorf("ThreadSplit = %v", doc.ThreadSplit)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ReadJSON(strings.NewReader(`[1,2`))
		if !errors.Is(err, errors.ErrCodeInvalidTree) {
			t.Errorf("ReadJSON() error = %v, want %s", err, errors.ErrCodeInvalidTree)
		}
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"profile.json", FormatJSON, false},
		{"out.FOLDED", FormatFolded, false},
		{"stacks.collapsed", FormatFolded, false},
		{"stacks.txt", FormatFolded, false},
		{"profile.pprof", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()

	folded := filepath.Join(dir, "cpu.folded")
	if err := os.WriteFile(folded, []byte("main;work 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Import(folded)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if doc.Tree.Value != 7 {
		t.Errorf("Tree.Value = %d, want 7", doc.Tree.Value)
	}

	invalid := filepath.Join(dir, "neg.json")
	if err := os.WriteFile(invalid, []byte(`{"name":"root","value":-1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(invalid); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("Import(negative) error = %v, want %s", err, errors.ErrCodeInvalidTree)
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
