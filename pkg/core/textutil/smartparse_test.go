package textutil

import (
	"errors"
	"testing"
)

type verdictShape struct {
	Winner     string `json:"winner"`
	Confidence int    `json:"confidence"`
}

func TestSmartParseCleanJSON(t *testing.T) {
	var v verdictShape
	if err := SmartParse(`{"winner": "proponent", "confidence": 87}`, &v); err != nil {
		t.Fatalf("SmartParse failed: %v", err)
	}
	if v.Winner != "proponent" || v.Confidence != 87 {
		t.Errorf("Unexpected parse result: %+v", v)
	}
}

func TestSmartParseFencedJSON(t *testing.T) {
	input := "```json\n{\"winner\": \"opponent\", \"confidence\": 62}\n```"
	var v verdictShape
	if err := SmartParse(input, &v); err != nil {
		t.Fatalf("SmartParse failed on fenced payload: %v", err)
	}
	if v.Winner != "opponent" {
		t.Errorf("Expected opponent, got %s", v.Winner)
	}
}

func TestSmartParseRepairsDefects(t *testing.T) {
	// Trailing comma and single quotes, both common in model output.
	input := `{'winner': 'proponent', 'confidence': 70,}`
	var v verdictShape
	if err := SmartParse(input, &v); err != nil {
		t.Fatalf("SmartParse failed on repairable payload: %v", err)
	}
	if v.Winner != "proponent" || v.Confidence != 70 {
		t.Errorf("Unexpected parse result: %+v", v)
	}
}

func TestSmartParseHjsonFallback(t *testing.T) {
	input := "winner: proponent\nconfidence: 55"
	var v verdictShape
	if err := SmartParse(input, &v); err != nil {
		t.Fatalf("SmartParse failed on hjson payload: %v", err)
	}
	if v.Winner != "proponent" || v.Confidence != 55 {
		t.Errorf("Unexpected parse result: %+v", v)
	}
}

func TestSmartParseUnparseable(t *testing.T) {
	var v verdictShape
	err := SmartParse("I am sorry, I cannot help with that.", &v)
	if err == nil {
		t.Fatal("Expected error for prose output, got nil")
	}
	if !errors.Is(err, ErrUnparseable) {
		t.Errorf("Expected error wrapping ErrUnparseable, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	if got := StripFences("```json\n{}\n```"); got != "{}" {
		t.Errorf("Expected bare object, got %q", got)
	}
	if got := StripFences(`{"a":1}`); got != `{"a":1}` {
		t.Errorf("Unfenced input should pass through, got %q", got)
	}
}
