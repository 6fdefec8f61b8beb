package orphan

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidReturnURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"/pages/12/edit", true},
		{"/surveys/EJ2022?wave=3", true},
		{"/", true},
		{"", false},
		{"//evil.example/pages", false},
		{"/\\evil.example", false},
		{"https://evil.example/", false},
		{"http://localhost/pages", false},
		{"pages/12", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ValidReturnURL(tt.url); got != tt.want {
				t.Errorf("ValidReturnURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestRedirectTarget(t *testing.T) {
	r := &Review{ReturnURL: "/pages/7/edit"}
	if got := r.RedirectTarget(); got != "/pages/7/edit" {
		t.Errorf("got %q, want recorded return URL", got)
	}

	r = &Review{ReturnURL: "https://evil.example/"}
	if got := r.RedirectTarget(); got != DefaultLanding {
		t.Errorf("got %q, want default landing", got)
	}

	r = &Review{}
	if got := r.RedirectTarget(); got != DefaultLanding {
		t.Errorf("got %q, want default landing for empty return URL", got)
	}
}

func TestValidAction(t *testing.T) {
	if !ValidAction(ActionDelete) || !ValidAction(ActionKeep) {
		t.Error("delete and keep must be valid actions")
	}
	for _, bad := range []string{"", "DELETE", "discard", "yes"} {
		if ValidAction(bad) {
			t.Errorf("action %q should be invalid", bad)
		}
	}
}

func TestReviewRoundTrip(t *testing.T) {
	in := Review{
		QuestionIDs: []int64{3, 9, 14},
		ReturnURL:   "/pages/3/edit?wave=2",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Review
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.QuestionIDs) != 3 || out.QuestionIDs[2] != 14 {
		t.Errorf("question IDs not preserved: %v", out.QuestionIDs)
	}
	if out.ReturnURL != in.ReturnURL {
		t.Errorf("return URL not preserved: %q", out.ReturnURL)
	}
}
