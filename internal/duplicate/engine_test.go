package duplicate

import (
	"testing"

	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

func TestValidateTargets(t *testing.T) {
	waves := func(locked ...bool) []postgres.Wave {
		out := make([]postgres.Wave, len(locked))
		for i, l := range locked {
			out[i] = postgres.Wave{ID: int64(i + 1), IsLocked: l}
		}
		return out
	}

	tests := []struct {
		name      string
		requested []int64
		found     []postgres.Wave
		wantCode  apierr.Code
	}{
		{"all unlocked", []int64{1, 2}, waves(false, false), ""},
		{"no waves requested", nil, nil, apierr.CodeTargetWavesMissing},
		{"wave from another survey", []int64{1, 99}, waves(false), apierr.CodeWaveNotInSurvey},
		{"one wave locked", []int64{1, 2}, waves(false, true), apierr.CodeLockedWave},
		{"duplicate requested IDs collapse", []int64{1, 1, 2}, waves(false, false), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargets(tt.requested, tt.found)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("want error code %s, got nil", tt.wantCode)
			}
			if err.Code() != tt.wantCode {
				t.Errorf("code = %s, want %s", err.Code(), tt.wantCode)
			}
		})
	}
}

func TestNormalizeDemotesVariables(t *testing.T) {
	r := Request{IncludeQuestions: false, IncludeVariables: true}
	r.Normalize()
	if r.IncludeVariables {
		t.Error("variables without questions must be demoted")
	}

	r = Request{IncludeQuestions: true, IncludeVariables: true}
	r.Normalize()
	if !r.IncludeVariables {
		t.Error("variables with questions must be kept")
	}
}
