package handler

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/slclab/surveybase/pkg/apierr"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name     string
		wantErr  bool
		wantCode apierr.Code
	}{
		{"Demographics", false, ""},
		{"x", false, ""},
		{"Seite 12 / Einleitung", false, ""},
		{"", true, apierr.CodeNameRequired},
		{strings.Repeat("a", 201), true, apierr.CodeNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && err.Code() != tt.wantCode {
				t.Errorf("validateName(%q) code = %v, want %v", tt.name, err.Code(), tt.wantCode)
			}
		})
	}
}

func TestValidateVarName(t *testing.T) {
	tests := []struct {
		name     string
		wantErr  bool
		wantCode apierr.Code
	}{
		{"age", false, ""},
		{"v001_income", false, ""},
		{"X2", false, ""},
		{"", true, apierr.CodeVarNameRequired},
		{"a", true, apierr.CodeVarNameInvalid},             // too short
		{"1income", true, apierr.CodeVarNameInvalid},       // starts with digit
		{"_hidden", true, apierr.CodeVarNameInvalid},       // starts with underscore
		{"has space", true, apierr.CodeVarNameInvalid},     // space
		{"umlaut_ä", true, apierr.CodeVarNameInvalid},      // non-ascii
		{strings.Repeat("a", 65), true, apierr.CodeVarNameInvalid}, // too long
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVarName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateVarName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && err.Code() != tt.wantCode {
				t.Errorf("validateVarName(%q) code = %v, want %v", tt.name, err.Code(), tt.wantCode)
			}
		})
	}
}

func TestValidateValLabValues(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"yes/no", `[{"value": 1, "order": 1, "text": "yes"}, {"value": 2, "order": 2, "text": "no"}]`, false},
		{"negative codes", `[{"value": -9, "order": 1, "text": "refused"}]`, false},
		{"empty input", ``, true},
		{"empty array", `[]`, true},
		{"object instead of array", `{"1": "yes"}`, true},
		{"missing value", `[{"order": 1, "text": "yes"}]`, true},
		{"missing order", `[{"value": 1, "text": "yes"}]`, true},
		{"empty text", `[{"value": 1, "order": 1, "text": ""}]`, true},
		{"duplicate orders", `[{"value": 1, "order": 1, "text": "a"}, {"value": 2, "order": 1, "text": "b"}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateValLabValues(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateValLabValues(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}
