package textutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUnparseable marks generator output that could not be decoded into the
// requested schema by any strategy. Callers treat it as a generation failure,
// never as an invitation to best-guess extraction.
var ErrUnparseable = errors.New("output unparseable")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// StripFences removes a surrounding markdown code fence, if present.
func StripFences(s string) string {
	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// RepairJSON attempts to fix common JSON defects in model output: missing
// quotes, single quotes, unclosed brackets, trailing commas, comments.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// SmartParse decodes model output into schema, trying progressively more
// lenient strategies:
//  1. standard JSON
//  2. repaired JSON
//  3. Hjson (unquoted keys, optional commas, comments)
//
// A markdown code fence around the payload is stripped first. If every
// strategy fails the error wraps ErrUnparseable.
func SmartParse(input string, schema interface{}) error {
	raw := StripFences(input)

	if err := json.Unmarshal([]byte(raw), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(raw), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, schema); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: all parse strategies failed", ErrUnparseable)
}
