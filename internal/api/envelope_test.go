package api

import (
	"encoding/json"
	"testing"
)

func TestSuccessCopiesData(t *testing.T) {
	input := struct{ Value string }{Value: "ok"}
	env := Success("done", input)

	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	if env.Data == nil || env.Data.Value != "ok" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}

	input.Value = "mutated"
	if env.Data.Value != "ok" {
		t.Fatalf("data should not change after original input mutation, got %q", env.Data.Value)
	}
}

func TestSuccessListRecordsCount(t *testing.T) {
	env := SuccessList("loaded", []string{"a", "b", "c"})

	if env.Count == nil || *env.Count != 3 {
		t.Fatalf("expected count 3, got %+v", env.Count)
	}
	if env.Data == nil || len(*env.Data) != 3 {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestFailureClonesErrors(t *testing.T) {
	fieldErrors := []FieldError{{Field: "email", Message: "invalid"}}
	env := Failure[struct{}]("Validation failed", fieldErrors)

	if env.Success {
		t.Fatalf("expected failure envelope")
	}
	if env.Data != nil {
		t.Fatalf("expected nil data, got %+v", env.Data)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "email" {
		t.Fatalf("unexpected errors: %+v", env.Errors)
	}

	fieldErrors[0].Message = "mutated"
	if env.Errors[0].Message != "invalid" {
		t.Fatalf("errors should be copied, got %q", env.Errors[0].Message)
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	env := SuccessMessage[struct{}]("Profile deleted successfully")
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["success"] != true {
		t.Fatalf("expected success true, got %v", decoded["success"])
	}
	if _, present := decoded["data"]; present {
		t.Fatalf("data should be omitted when empty: %s", raw)
	}
	for _, key := range []string{"count", "errors", "error"} {
		if _, present := decoded[key]; present {
			t.Fatalf("%s should be omitted when empty: %s", key, raw)
		}
	}
}
