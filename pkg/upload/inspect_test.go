package upload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestInspectPDFAcceptsWellFormedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.pdf")
	writePDF(t, path)

	info, err := InspectPDF(path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Pages != 1 {
		t.Fatalf("pages = %d", info.Pages)
	}
	if info.SizeBytes == 0 {
		t.Fatal("size must be reported")
	}
}

func TestInspectPDFRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.epub")
	if err := os.WriteFile(path, []byte("zip-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectPDF(path); err == nil {
		t.Fatal("expected extension rejection")
	}
}

func TestInspectPDFRejectsEmptyAndGarbage(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectPDF(empty); err == nil {
		t.Fatal("expected empty-file rejection")
	}

	garbage := filepath.Join(dir, "garbage.pdf")
	if err := os.WriteFile(garbage, []byte("this is not a pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := InspectPDF(garbage); err == nil {
		t.Fatal("expected parse rejection")
	}

	if _, err := InspectPDF(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatal("expected stat error")
	}
}

func writePDF(t *testing.T, path string) {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	var offsets []int
	addObj := func(s string) {
		offsets = append(offsets, b.Len())
		b.WriteString(s)
	}
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")
	xrefStart := b.Len()
	b.WriteString("xref\n0 4\n")
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	b.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&b, "%d\n", xrefStart)
	b.WriteString("%%EOF\n")
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatalf("write pdf fixture: %v", err)
	}
}
