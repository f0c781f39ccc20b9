package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestColumnsAndValuesAligned(t *testing.T) {
	m := PageMetrics{Page: 7}
	cols := Columns()
	vals := m.Values()
	if len(cols) != len(vals) {
		t.Fatalf("columns=%d values=%d", len(cols), len(vals))
	}
	if cols[0] != "page" {
		t.Fatalf("first column = %q, want page", cols[0])
	}
	if cols[len(cols)-1] != "chunk_info" {
		t.Fatalf("last column = %q, want chunk_info", cols[len(cols)-1])
	}
	if vals[0] != 7 {
		t.Fatalf("page value = %v", vals[0])
	}
}

func TestMapCarriesEveryContractualKey(t *testing.T) {
	m := PageMetrics{
		Page:                      3,
		GeminiAPIStatus:           200,
		VerificationStatus:        "pass",
		FallbackTextMethodUsed:    "pypdf2_direct",
		ContentVerificationStatus: "fuzzy_attempted",
		ChunkInfo:                 "chunk_2_pages_3-4",
	}
	got := m.Map()
	for _, k := range Columns() {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	if got["gemini_api_status"] != 200 {
		t.Errorf("gemini_api_status = %v", got["gemini_api_status"])
	}
	if got["chunk_info"] != "chunk_2_pages_3-4" {
		t.Errorf("chunk_info = %v", got["chunk_info"])
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.csv")
	rows := []PageMetrics{
		{Page: 1, TimeSecTotalPageProcessing: 1.5, VerificationStatus: "pass"},
		{Page: 2, VerificationStatus: "fail - empty sanitized text"},
	}
	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	recs, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(recs))
	}
	if recs[0][0] != "page" || recs[1][0] != "1" || recs[2][0] != "2" {
		t.Fatalf("unexpected page cells: %v %v %v", recs[0][0], recs[1][0], recs[2][0])
	}
	statusCol := -1
	for i, c := range recs[0] {
		if c == "verification_status" {
			statusCol = i
		}
	}
	if statusCol < 0 {
		t.Fatal("verification_status column missing")
	}
	if recs[2][statusCol] != "fail - empty sanitized text" {
		t.Fatalf("verification_status = %q", recs[2][statusCol])
	}
}

func TestWriteSummaryXLSX(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "summary.xlsx")
	csvPath := filepath.Join(dir, "summary.csv")
	rows := []PageMetrics{{Page: 1, VerificationStatus: "pass"}}
	if err := WriteSummary(xlsx, csvPath, rows, nil); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Fatalf("xlsx not written: %v", err)
	}
}
