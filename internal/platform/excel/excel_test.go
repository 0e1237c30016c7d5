package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWorkbook_SheetPerResultSet(t *testing.T) {
	data, err := Workbook([]Sheet{
		{
			Name:   "patients_on_day",
			Header: []string{"id", "name", "ward"},
			Rows: [][]interface{}{
				{1, "Nguyen A", "304"},
				{2, "Tran B", "305"},
			},
		},
		{
			Name:   "orders_day",
			Header: []string{"id", "order_type", "status"},
			Rows:   [][]interface{}{{7, "CT", "scheduled"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", sheets)
	}

	v, err := f.GetCellValue("patients_on_day", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if v != "Nguyen A" {
		t.Errorf("B2 = %q, want Nguyen A", v)
	}

	h, err := f.GetCellValue("orders_day", "C1")
	if err != nil {
		t.Fatal(err)
	}
	if h != "status" {
		t.Errorf("orders_day C1 = %q, want status", h)
	}
}

func TestWorkbook_TruncatesLongSheetNames(t *testing.T) {
	long := "a_very_long_sheet_name_that_exceeds_the_limit"
	data, err := Workbook([]Sheet{{Name: long, Header: []string{"x"}}})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || len(sheets[0]) > 31 {
		t.Errorf("sheet name not truncated: %v", sheets)
	}
}

func TestWorkbook_EmptyRows(t *testing.T) {
	data, err := Workbook([]Sheet{{Name: "empty", Header: []string{"id"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty workbook bytes")
	}
}
