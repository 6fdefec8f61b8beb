package handler

import (
	"encoding/json"
	"regexp"

	"github.com/slclab/surveybase/pkg/apierr"
)

var varNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{1,63}$`)

func validateName(name string) *apierr.Error {
	if name == "" {
		return apierr.NameRequired()
	}
	if len(name) > 200 {
		return apierr.NameTooLong()
	}
	return nil
}

func validateVarName(name string) *apierr.Error {
	if name == "" {
		return apierr.VarNameRequired()
	}
	if !varNameRegex.MatchString(name) {
		return apierr.VarNameInvalid()
	}
	return nil
}

// valLabEntry is one row of a value-label set's values payload.
type valLabEntry struct {
	Value *int   `json:"value"`
	Order *int   `json:"order"`
	Text  string `json:"text"`
}

// validateValLabValues requires a JSON array of {value, order, text}
// entries with unique orders, e.g.
// [{"value": 1, "order": 1, "text": "yes"}, {"value": -9, "order": 2, "text": "refused"}].
func validateValLabValues(raw json.RawMessage) *apierr.Error {
	if len(raw) == 0 {
		return apierr.ValLabInvalid("Value labels are required")
	}
	var entries []valLabEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return apierr.ValLabInvalid("Value labels must be an array of {value, order, text} entries")
	}
	if len(entries) == 0 {
		return apierr.ValLabInvalid("Value labels must contain at least one entry")
	}

	orders := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Value == nil {
			return apierr.ValLabInvalid("Every value label needs an integer 'value'")
		}
		if e.Order == nil {
			return apierr.ValLabInvalid("Every value label needs an integer 'order'")
		}
		if e.Text == "" {
			return apierr.ValLabInvalid("Every value label needs a non-empty 'text'")
		}
		if orders[*e.Order] {
			return apierr.ValLabInvalid("Value label orders must be unique")
		}
		orders[*e.Order] = true
	}
	return nil
}
