package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []Record{
		{Filename: "scan1.png", StoredPath: "uploads/1_scan1.png", OriginalText: "first", Summary: "sum1", SummarySource: "model"},
		{Filename: "scan2.pdf", StoredPath: "uploads/2_scan2.pdf", OriginalText: "second", Summary: "second...", SummarySource: "excerpt"},
	}
	for _, r := range recs {
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, r := range got {
		if r.ID == "" {
			t.Error("record missing generated ID")
		}
		if r.CreatedAt == "" {
			t.Error("record missing created_at")
		}
	}
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestExportXLSX(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, Record{
		Filename: "receipt.jpg", StoredPath: "uploads/9_receipt.jpg",
		OriginalText: "Total 42.00", Summary: "A receipt.", SummarySource: "model",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	data, err := s.ExportXLSX(ctx)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening exported workbook: %v", err)
	}
	defer wb.Close()

	header, err := wb.GetCellValue("Documents", "B1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if header != "Filename" {
		t.Errorf("B1 = %q, want Filename", header)
	}
	name, err := wb.GetCellValue("Documents", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if name != "receipt.jpg" {
		t.Errorf("B2 = %q, want receipt.jpg", name)
	}
}
