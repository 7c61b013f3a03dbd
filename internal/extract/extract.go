// Package extract recovers a JSON object from free-form model text.
//
// Recovery runs in explicit stages so each one can be exercised on its own:
//
//  1. Direct: the whole text is a JSON object.
//  2. Fenced: the content of the first markdown code fence is a JSON object.
//  3. Braces: the span from the first '{' to the last '}' is a JSON object.
//
// Stage 3 runs over the fenced content when a fence was found, otherwise over
// the original text.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Stage names the recovery step that produced (or last failed to produce)
// an object.
type Stage string

const (
	StageDirect Stage = "direct"
	StageFenced Stage = "fenced"
	StageBraces Stage = "braces"
)

const fence = "```"

var (
	// ErrEmpty is returned for blank model text.
	ErrEmpty = errors.New("empty model response")

	// ErrNoObject is returned when the text has no '{' ... '}' span.
	ErrNoObject = errors.New("no JSON object found in model response")

	// ErrNotObject is returned when the text parses but is not an object.
	ErrNotObject = errors.New("model response is not a JSON object")
)

// ExtractionError reports that no stage could recover an object.
type ExtractionError struct {
	Stage Stage
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract JSON (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Result is a recovered object and the stage that recovered it.
type Result struct {
	Object map[string]any
	Stage  Stage
}

// Object runs all stages and returns the first object recovered.
func Object(text string) (map[string]any, error) {
	res, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return res.Object, nil
}

// Parse is Object that also reports which stage succeeded.
func Parse(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, &ExtractionError{Stage: StageDirect, Err: ErrEmpty}
	}

	if obj, err := Direct(text); err == nil {
		return Result{Object: obj, Stage: StageDirect}, nil
	}

	candidate := text
	if inner, ok := FenceContent(text); ok {
		if obj, err := Direct(inner); err == nil {
			return Result{Object: obj, Stage: StageFenced}, nil
		}
		candidate = inner
	}

	obj, err := Braces(candidate)
	if err != nil {
		return Result{}, &ExtractionError{Stage: StageBraces, Err: err}
	}
	return Result{Object: obj, Stage: StageBraces}, nil
}

// Direct parses text as a single JSON object.
func Direct(text string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// FenceContent returns the lines between the first opening fence line and
// the next fence line. An unterminated fence yields everything after it.
func FenceContent(text string) (string, bool) {
	if !strings.Contains(text, fence) {
		return "", false
	}

	var body []string
	inBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			if inBlock {
				break
			}
			inBlock = true
			continue
		}
		if inBlock {
			body = append(body, line)
		}
	}

	inner := strings.TrimSpace(strings.Join(body, "\n"))
	if inner == "" {
		return "", false
	}
	return inner, true
}

// Braces parses the span from the first '{' to the last '}'.
func Braces(text string) (map[string]any, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end <= start {
		return nil, ErrNoObject
	}
	obj, err := Direct(text[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return obj, nil
}
