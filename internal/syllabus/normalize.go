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

package syllabus

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	startSentinel = "<startJson>"
	endSentinel   = "</endJson>"
)

// Error codes surfaced in failed results.
const (
	errExtract    = "Could not extract JSON from response"
	errParse      = "Failed to parse JSON response"
	errProcessing = "An unexpected error occurred during processing"
)

// Matches the first brace-delimited object. Nested braces defeat the
// pattern; those responses come back as a parse error instead.
var jsonObjectPattern = regexp.MustCompile(`\{[^}]*\}`)

// Result is one syllabus outcome: either a subject with its ordered
// topics, or a structured error. Exactly one of the two arms is set.
type Result struct {
	Subject string
	Topics  []string
	Err     *ResultError
}

// ResultError carries the failure code, optional detail and, for
// normalization failures, the raw model output for operator diagnosis.
type ResultError struct {
	Code        string `json:"error"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Err)
	}

	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return json.Marshal(struct {
		Subject  string   `json:"subject"`
		Syllabus []string `json:"syllabus"`
	}{
		Subject:  r.Subject,
		Syllabus: topics,
	})
}

// Normalize coerces raw model output into a Result. It never fails past
// its boundary: any shape it cannot recover is returned as the error arm.
//
// Attempts, in order:
//  1. text between the <startJson> and </endJson> sentinels, wrapped in
//     braces when the model omitted them;
//  2. the first minimal brace-delimited object after stripping newlines
//     and backslashes;
//  3. a structured error carrying the raw response.
func Normalize(raw string) Result {
	var jsonStr string

	if idx := strings.Index(raw, startSentinel); idx >= 0 {
		jsonStr = raw[idx+len(startSentinel):]
		if end := strings.Index(jsonStr, endSentinel); end >= 0 {
			jsonStr = jsonStr[:end]
		}
		jsonStr = strings.TrimSpace(jsonStr)
		if !strings.HasPrefix(jsonStr, "{") {
			jsonStr = "{" + jsonStr + "}"
		}
	} else {
		cleaned := strings.NewReplacer("\n", " ", "\\", "").Replace(raw)
		jsonStr = jsonObjectPattern.FindString(cleaned)
		if jsonStr == "" {
			return Result{Err: &ResultError{
				Code:        errExtract,
				RawResponse: raw,
			}}
		}
	}

	var payload struct {
		Subject  string   `json:"subject"`
		Syllabus []string `json:"syllabus"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return Result{Err: &ResultError{
			Code:        errParse,
			Details:     err.Error(),
			RawResponse: raw,
		}}
	}

	return Result{
		Subject: payload.Subject,
		Topics:  payload.Syllabus,
	}
}
