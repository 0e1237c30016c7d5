package report

import (
	"testing"

	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
)

func TestFoldStripsDiacritics(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Nguyễn Văn Đức", "nguyen van duc"},
		{"Trần Thị Hồng", "tran thi hong"},
		{"PLAIN ascii", "plain ascii"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSearchPatientsIgnoresDiacriticsAndCase(t *testing.T) {
	patients := []*patient.Patient{
		{ID: 1, Name: "Nguyễn Văn Đức", MedicalID: "BA-001", Ward: "B1"},
		{ID: 2, Name: "Trần Thị Hồng", MedicalID: "BA-002", Ward: "B2"},
		{ID: 3, Name: "Lê Hòa", MedicalID: "BA-003", Ward: "Hồi sức"},
	}

	got := SearchPatients(patients, "duc")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("query duc: got %v", got)
	}

	got = SearchPatients(patients, "HONG")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("query HONG: got %v", got)
	}

	// Ward matches fold too.
	got = SearchPatients(patients, "hoi suc")
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("query hoi suc: got %v", got)
	}

	// Medical id substring.
	got = SearchPatients(patients, "ba-00")
	if len(got) != 3 {
		t.Errorf("query ba-00: got %d rows, want 3", len(got))
	}

	if got = SearchPatients(patients, "   "); got != nil {
		t.Errorf("blank query must match nothing, got %v", got)
	}
}
