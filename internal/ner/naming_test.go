package ner

import "testing"

func TestLetterIndex(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}

	for _, tt := range tests {
		if got := letterIndex(tt.n); got != tt.want {
			t.Errorf("letterIndex(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNamerCountsPerLabel(t *testing.T) {
	n := &namer{}

	if got := n.next(LabelPerson); got != "Personne A" {
		t.Errorf("first person = %q, want %q", got, "Personne A")
	}
	if got := n.next(LabelOrganization); got != "Organisation A" {
		t.Errorf("first organization = %q, want %q", got, "Organisation A")
	}
	if got := n.next(LabelPerson); got != "Personne B" {
		t.Errorf("second person = %q, want %q", got, "Personne B")
	}
	if got := n.next(LabelOrganization); got != "Organisation B" {
		t.Errorf("second organization = %q, want %q", got, "Organisation B")
	}
	if got := n.next("LOC"); got != "" {
		t.Errorf("unknown label = %q, want empty", got)
	}
}
