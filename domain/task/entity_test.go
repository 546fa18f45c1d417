package task

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{raw: "pending", want: StatusPending},
		{raw: "in_progress", want: StatusInProgress},
		{raw: "done", want: StatusDone},
		{raw: "Done", wantErr: true},
		{raw: "completed", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPatch_Empty(t *testing.T) {
	title := "new"
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (Patch{Title: &title}).Empty() {
		t.Error("patch with title should not be empty")
	}
	if (Patch{Description: SetNull()}).Empty() {
		t.Error("patch clearing the description should not be empty")
	}
}

func TestPatch_DescriptionJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *string
	}{
		{name: "absent", body: `{"title":"x"}`},
		{name: "null", body: `{"description":null}`, wantSet: true},
		{name: "empty", body: `{"description":""}`, wantSet: true, wantValue: new(string)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch Patch
			if err := json.Unmarshal([]byte(tt.body), &patch); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			got := patch.Description
			if got.Set != tt.wantSet {
				t.Fatalf("Set = %v, want %v", got.Set, tt.wantSet)
			}
			if (got.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value = %v, want %v", got.Value, tt.wantValue)
			}
			if got.Value != nil && *got.Value != *tt.wantValue {
				t.Errorf("Value = %q, want %q", *got.Value, *tt.wantValue)
			}
		})
	}
}

func TestPatch_MarshalKeepsPresence(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  string
	}{
		{name: "unset omitted", patch: Patch{}, want: `{}`},
		{name: "null kept", patch: Patch{Description: SetNull()}, want: `{"description":null}`},
		{name: "empty kept", patch: Patch{Description: SetString("")}, want: `{"description":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.patch)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back Patch
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back.Description.Set != tt.patch.Description.Set {
				t.Errorf("round trip Set = %v, want %v", back.Description.Set, tt.patch.Description.Set)
			}
		})
	}
}
