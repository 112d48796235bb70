package utils

import "testing"

func Test_MergeErrors_NoFailures(t *testing.T) {
	if err := MergeErrors([]error{nil, nil}, "workers"); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}

func Test_MergeErrors_ReportsCount(t *testing.T) {
	errs := []error{errTest("a"), nil, errTest("b")}
	err := MergeErrors(errs, "workers")
	if err == nil {
		t.Fatal("expected a merged error")
	}
	if got := err.Error(); got != "workers failed with 2 errors: a, b" {
		t.Errorf("got %q", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
