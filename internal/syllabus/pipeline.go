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
	"context"
	"fmt"
	"log/slog"

	"github.com/alan-mat/sway/internal/api"
	"github.com/alan-mat/sway/internal/provider"
)

const systemPrompt = `
Task: Provide a detailed syllabus for the given subject in strict JSON format, adhering to these guidelines:
    -> Generate a concise, focused syllabus for the given subject.
    -> The syllabus should be in JSON format and consist only of the subject name and a list of topics.
    -> Avoid repeating topics or adding redundant information. Limit each topic to a single line.
    -> Ensure no additional text, explanations, or information outside the JSON structure.

Example:
{
    "subject": "Software Engineering",
    "syllabus": ["Introduction to software engineering", "Software crises", "Software Life Cycle Model", "Waterfall Model", "Prototype Model", "Spiral Model", "Agile Model", "Software Requirement Analysis and Specification"]
}
Output: Provide only the JSON object as per the format above.
`

const defaultTemperature = 0.5

// Pipeline turns a batch of subject names into syllabus results, one
// per subject and in the same order. Failures are contained per item:
// a model error for one subject never aborts the rest of the batch.
type Pipeline struct {
	lm          provider.LMProvider
	modelName   string
	temperature float32
}

type PipelineOption func(*Pipeline)

func NewPipeline(lm provider.LMProvider, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		lm:          lm,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithModelName(name string) PipelineOption {
	return func(p *Pipeline) {
		p.modelName = name
	}
}

func WithTemperature(t float32) PipelineOption {
	return func(p *Pipeline) {
		p.temperature = t
	}
}

func (p *Pipeline) Run(ctx context.Context, subjects []string) []Result {
	results := make([]Result, 0, len(subjects))
	for _, subject := range subjects {
		results = append(results, p.processItem(ctx, subject))
	}
	return results
}

func (p *Pipeline) processItem(ctx context.Context, subject string) Result {
	slog.Info("processing subject", "subject", subject)

	output, err := p.lm.Generate(ctx, api.GenerationRequest{
		Prompt:       fmt.Sprintf("Subject: %s", subject),
		SystemPrompt: systemPrompt,
		ModelName:    p.modelName,
		Temperature:  p.temperature,
	})
	if err != nil {
		slog.Error("failed to process subject", "subject", subject, "err", err)
		return Result{Err: &ResultError{
			Code:    errProcessing,
			Details: err.Error(),
		}}
	}

	slog.Debug("raw model output", "subject", subject, "output", output)

	res := Normalize(output)
	if res.Err != nil {
		slog.Error("failed to normalize model output", "subject", subject, "code", res.Err.Code, "raw", output)
	}
	return res
}
