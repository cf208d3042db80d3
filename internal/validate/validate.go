// Package validate implements the structural gate applied to imported
// data. Checks are shallow: required keys must be present with the right
// basic JSON type. Referential integrity (parent ids resolving to real
// groups) and enum validity are deliberately out of scope.
package validate

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Result aggregates the outcome of validating an import payload.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// rawData mirrors the backup document's data object with each entity left
// undecoded so that per-entity shape errors can be reported individually.
type rawData struct {
	Cards             []json.RawMessage `json:"cards"`
	Groups            []json.RawMessage `json:"groups"`
	ResearchNotes     []json.RawMessage `json:"researchNotes"`
	MetadataTemplates []json.RawMessage `json:"metadataTemplates"`
	SavedSearches     []json.RawMessage `json:"savedSearches"`
}

// Data validates the data object of a backup document. A failing result
// carries one human-readable error per offending entity.
func Data(raw []byte) Result {
	var data rawData
	if err := json.Unmarshal(raw, &data); err != nil {
		return Result{Errors: []string{fmt.Sprintf("data is not a valid backup object: %v", err)}}
	}

	var errs []string
	for i, c := range data.Cards {
		if err := validateEntity(c, cardShape); err != nil {
			errs = append(errs, fmt.Sprintf("invalid card at index %d: %v", i, err))
		}
	}
	for i, g := range data.Groups {
		if err := validateEntity(g, groupShape); err != nil {
			errs = append(errs, fmt.Sprintf("invalid group at index %d: %v", i, err))
		}
	}
	for i, n := range data.ResearchNotes {
		if err := validateEntity(n, noteShape); err != nil {
			errs = append(errs, fmt.Sprintf("invalid research note at index %d: %v", i, err))
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// Shape rules: presence + basic type per field. An empty string satisfies
// the string rule (the gate checks shape, not content).

var (
	isString = validation.By(func(v any) error {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("must be a string")
		}
		return nil
	})
	isNumber = validation.By(func(v any) error {
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("must be a number")
		}
		return nil
	})
	isBool = validation.By(func(v any) error {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("must be a boolean")
		}
		return nil
	})
	isObject = validation.By(func(v any) error {
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("must be an object")
		}
		return nil
	})
	isArray = validation.By(func(v any) error {
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("must be an array")
		}
		return nil
	})
)

var cardShape = validation.Map(
	validation.Key("id", isString),
	validation.Key("title", isString),
	validation.Key("description", isString),
	validation.Key("order", isNumber),
	validation.Key("metadata", isObject),
	validation.Key("timeInfo", isObject),
	validation.Key("createdAt", isString),
	validation.Key("updatedAt", isString),
).AllowExtraKeys()

var groupShape = validation.Map(
	validation.Key("id", isString),
	validation.Key("title", isString),
	validation.Key("description", isString),
	validation.Key("type", isString),
	validation.Key("isCollapsed", isBool),
	validation.Key("order", isNumber),
	validation.Key("color", isString),
	validation.Key("cardIds", isArray),
).AllowExtraKeys()

var noteShape = validation.Map(
	validation.Key("id", isString),
	validation.Key("title", isString),
	validation.Key("content", isString),
	validation.Key("category", isString),
	validation.Key("tags", isArray),
	validation.Key("links", isArray),
	validation.Key("createdAt", isString),
	validation.Key("updatedAt", isString),
).AllowExtraKeys()

func validateEntity(raw json.RawMessage, shape validation.MapRule) error {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("not an object")
	}
	return validation.Validate(m, shape)
}
