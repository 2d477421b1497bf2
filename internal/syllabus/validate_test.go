package syllabus_test

import (
	"encoding/json"
	"testing"

	"github.com/alan-mat/sway/internal/syllabus"
)

func TestValidateOk(t *testing.T) {
	body := json.RawMessage(`[{"subject": "Math"}, {"subject": "History"}]`)

	errs := syllabus.Validate(body)
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateNotAList(t *testing.T) {
	for _, body := range []string{`{"subject": "Math"}`, `"Math"`, `42`, `null`, ` null `} {
		errs := syllabus.Validate(json.RawMessage(body))
		if len(errs) != 1 {
			t.Fatalf("body %s: expected 1 error, got %v", body, errs)
		}
		if errs[0] != "Request body must be a list of objects" {
			t.Errorf("body %s: unexpected error '%s'", body, errs[0])
		}
	}
}

func TestValidateItemNotAnObject(t *testing.T) {
	body := json.RawMessage(`[{"subject": "Math"}, "History"]`)

	errs := syllabus.Validate(body)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "Item at index 1 must be an object" {
		t.Errorf("unexpected error '%s'", errs[0])
	}
}

func TestValidateMissingSubject(t *testing.T) {
	body := json.RawMessage(`[{"subject": "Math"}, {"foo": "bar"}]`)

	errs := syllabus.Validate(body)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "Missing 'subject' field in item at index 1" {
		t.Errorf("unexpected error '%s'", errs[0])
	}
}

func TestValidateSubjectWrongType(t *testing.T) {
	body := json.RawMessage(`[{"subject": 7}]`)

	errs := syllabus.Validate(body)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "'subject' must be a string in item at index 0" {
		t.Errorf("unexpected error '%s'", errs[0])
	}
}

func TestValidateEmptySubject(t *testing.T) {
	body := json.RawMessage(`[{"subject": "  "}]`)

	errs := syllabus.Validate(body)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "'subject' cannot be empty in item at index 0" {
		t.Errorf("unexpected error '%s'", errs[0])
	}
}

func TestValidateReportsEveryDefect(t *testing.T) {
	body := json.RawMessage(`[{"subject": ""}, {"other": 1}, {"subject": "Math"}, []]`)

	errs := syllabus.Validate(body)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
}

func TestSubjectsPreservesOrder(t *testing.T) {
	body := json.RawMessage(`[{"subject": "Math"}, {"subject": "Art"}, {"subject": "Law"}]`)

	subjects, err := syllabus.Subjects(body)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	expected := []string{"Math", "Art", "Law"}
	for i, s := range expected {
		if subjects[i] != s {
			t.Errorf("expected subject '%s' at index %d, got '%s'", s, i, subjects[i])
		}
	}
}
