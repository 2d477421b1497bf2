// Copyright 2025 Alan Matykiewicz
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package syllabus_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/alan-mat/sway/internal/syllabus"
)

func TestNormalizeSentinels(t *testing.T) {
	raw := `Sure, here is your syllabus:
<startJson>{"subject": "Mathematics", "syllabus": ["Algebra", "Geometry", "Calculus"]}</endJson>
Let me know if you need anything else!`

	res := syllabus.Normalize(raw)
	if res.Err != nil {
		t.Fatalf("expected ok result, got error %+v", res.Err)
	}
	if res.Subject != "Mathematics" {
		t.Errorf("expected subject 'Mathematics', got '%s'", res.Subject)
	}
	expected := []string{"Algebra", "Geometry", "Calculus"}
	if !reflect.DeepEqual(res.Topics, expected) {
		t.Errorf("expected topics '%v', got '%v'", expected, res.Topics)
	}
}

func TestNormalizeSentinelsMissingBraces(t *testing.T) {
	raw := `<startJson>"subject": "History", "syllabus": ["Antiquity"]</endJson>`

	res := syllabus.Normalize(raw)
	if res.Err != nil {
		t.Fatalf("expected ok result, got error %+v", res.Err)
	}
	if res.Subject != "History" {
		t.Errorf("expected subject 'History', got '%s'", res.Subject)
	}
}

func TestNormalizeBareObject(t *testing.T) {
	raw := "Here you go:\n{\"subject\": \"Physics\",\n \"syllabus\": [\"Mechanics\", \"Optics\"]}\nEnjoy!"

	res := syllabus.Normalize(raw)
	if res.Err != nil {
		t.Fatalf("expected ok result, got error %+v", res.Err)
	}
	if res.Subject != "Physics" {
		t.Errorf("expected subject 'Physics', got '%s'", res.Subject)
	}
	if len(res.Topics) != 2 {
		t.Errorf("expected 2 topics, got %d", len(res.Topics))
	}
}

func TestNormalizeEscapedObject(t *testing.T) {
	// models sometimes escape quotes inside their own output
	raw := `{\"subject\": \"Chemistry\", \"syllabus\": [\"Atoms\"]}`

	res := syllabus.Normalize(raw)
	if res.Err != nil {
		t.Fatalf("expected ok result, got error %+v", res.Err)
	}
	if res.Subject != "Chemistry" {
		t.Errorf("expected subject 'Chemistry', got '%s'", res.Subject)
	}
}

func TestNormalizeGarbage(t *testing.T) {
	raw := "I cannot help with that request."

	res := syllabus.Normalize(raw)
	if res.Err == nil {
		t.Fatal("expected error result, got ok")
	}
	if res.Err.Code != "Could not extract JSON from response" {
		t.Errorf("unexpected error code '%s'", res.Err.Code)
	}
	if res.Err.RawResponse != raw {
		t.Errorf("expected raw response to be preserved, got '%s'", res.Err.RawResponse)
	}
}

func TestNormalizeMalformedObject(t *testing.T) {
	raw := `{"subject": "Biology", "syllabus": [unquoted]}`

	res := syllabus.Normalize(raw)
	if res.Err == nil {
		t.Fatal("expected error result, got ok")
	}
	if res.Err.Code != "Failed to parse JSON response" {
		t.Errorf("unexpected error code '%s'", res.Err.Code)
	}
	if res.Err.Details == "" {
		t.Error("expected parse details to be set")
	}
}

func TestResultMarshalOk(t *testing.T) {
	res := syllabus.Result{Subject: "Art", Topics: []string{"Color"}}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	expected := `{"subject":"Art","syllabus":["Color"]}`
	if string(b) != expected {
		t.Errorf("expected '%s', got '%s'", expected, string(b))
	}
}

func TestResultMarshalNilTopics(t *testing.T) {
	res := syllabus.Result{Subject: "Art"}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	expected := `{"subject":"Art","syllabus":[]}`
	if string(b) != expected {
		t.Errorf("expected '%s', got '%s'", expected, string(b))
	}
}

func TestResultMarshalError(t *testing.T) {
	res := syllabus.Result{Err: &syllabus.ResultError{
		Code:        "Could not extract JSON from response",
		RawResponse: "nope",
	}}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("expected valid json, got %v", err)
	}
	if decoded["error"] != "Could not extract JSON from response" {
		t.Errorf("unexpected error field '%s'", decoded["error"])
	}
	if decoded["raw_response"] != "nope" {
		t.Errorf("unexpected raw_response field '%s'", decoded["raw_response"])
	}
	if _, ok := decoded["subject"]; ok {
		t.Error("error results must not carry a subject field")
	}
}
