package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/timeutil"
)

func TestRenderTable(t *testing.T) {
	created := timeutil.New(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	result := Apply([]api.Profile{
		{ID: "a", Name: "Jane Doe", Email: "jane@example.com", Age: 30, CreatedAt: created},
		{ID: "local_123", Name: "John Smith", Email: "john@example.com", Age: 40, CreatedAt: created},
	}, Query{})

	var buf bytes.Buffer
	if err := Render(&buf, result, ModeTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"NAME", "EMAIL", "AGE",
		"jane@example.com", "2024-01-15 10:30",
		"pending sync",
		"Showing 2 of 2 profiles (page 1 of 1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	result := Apply([]api.Profile{
		{ID: "a", Name: "Jane Doe", Email: "jane@example.com", Age: 30},
	}, Query{})

	var buf bytes.Buffer
	if err := Render(&buf, result, ModeGrid); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Jane Doe <jane@example.com>") || !strings.Contains(out, "Age 30") {
		t.Fatalf("unexpected grid output:\n%s", out)
	}
}

func TestRenderEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Apply(nil, Query{}), ModeTable); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No profiles found" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderDetail(t *testing.T) {
	p := api.Profile{
		ID:        "local_abc",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Age:       30,
		CreatedAt: timeutil.New(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)),
		UpdatedAt: timeutil.New(time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)),
	}

	var buf bytes.Buffer
	if err := RenderDetail(&buf, p); err != nil {
		t.Fatalf("RenderDetail: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Name:", "Jane Doe", "Email:", "Age:", "30", "2024-01-16 09:00", "pending sync"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
