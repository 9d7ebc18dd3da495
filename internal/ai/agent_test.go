package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pantryplanner/internal/core"
)

func TestReplySchema_RequiresAllFields(t *testing.T) {
	schema, err := replySchema()
	if err != nil {
		t.Fatalf("replySchema failed: %v", err)
	}
	if schema["additionalProperties"] != false {
		t.Errorf("Expected additionalProperties false, got %v", schema["additionalProperties"])
	}
	required, ok := schema["required"].([]any)
	if !ok {
		t.Fatalf("Expected required list, got %T", schema["required"])
	}
	want := map[string]bool{"answer": true, "referenced_items": true, "insufficient_data": true}
	for _, r := range required {
		delete(want, r.(string))
	}
	if len(want) != 0 {
		t.Errorf("Expected all fields required, missing %v", want)
	}
}

func TestBuildInput(t *testing.T) {
	snap := core.NewHouseholdSnapshot(core.Household{ID: 1, Name: "Home"})

	if _, err := buildInput("   ", snap); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation for blank question, got %v", err)
	}
	if _, err := buildInput("what expires?", nil); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation for nil snapshot, got %v", err)
	}

	input, err := buildInput(" what expires? ", snap)
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}
	if !strings.Contains(input, "what expires?") || !strings.Contains(input, `"name":"Home"`) {
		t.Errorf("Expected question and context in input, got %q", input)
	}
}

func TestBuildInput_OmitsInviteCode(t *testing.T) {
	snap := core.NewHouseholdSnapshot(core.Household{ID: 1, Name: "Home", InviteCode: "JOIN-SECRET"})

	input, err := buildInput("what expires?", snap)
	if err != nil {
		t.Fatalf("buildInput failed: %v", err)
	}
	if strings.Contains(input, "JOIN-SECRET") || strings.Contains(input, "invite_code") {
		t.Errorf("Expected invite code to stay out of the model context, got %q", input)
	}
	for _, want := range []string{`"pantry_items":[]`, `"shopping_lists":[]`, `"expenses":[]`} {
		if !strings.Contains(input, want) {
			t.Errorf("Expected %s in empty household context, got %q", want, input)
		}
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `{"answer":" Milk expires first. ","referenced_items":["Milk"],"insufficient_data":false}`, false},
		{"missing items", `{"answer":"No data.","insufficient_data":true}`, false},
		{"empty", "", true},
		{"blank answer", `{"answer":"  ","referenced_items":[],"insufficient_data":false}`, true},
		{"not json", "Milk expires first.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := parseReply(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got reply %+v", reply)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if reply.Answer != strings.TrimSpace(reply.Answer) {
				t.Errorf("Expected trimmed answer, got %q", reply.Answer)
			}
			if reply.ReferencedItems == nil {
				t.Error("Expected non-nil referenced items")
			}
		})
	}
}

func TestAsk_NotConfigured(t *testing.T) {
	agent := NewAgent("", "")
	_, err := agent.Ask(context.Background(), "anything?", &core.HouseholdSnapshot{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
