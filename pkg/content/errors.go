package content

import (
	"errors"
	"fmt"
	"strings"

	"site-content/pkg/models"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrUnknownCollection    = errors.New("unknown collection")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
)

type UnknownCollectionError struct {
	Collection string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection %q", e.Collection)
}

func (e *UnknownCollectionError) Is(target error) bool {
	return target == ErrUnknownCollection
}

type MissingRequiredFieldError struct {
	Collection string
	Field      string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Collection, e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// TypeMismatchError reports a value that cannot be coerced to its declared type.
// Index is the offending element for array fields, -1 otherwise.
type TypeMismatchError struct {
	Collection string
	Field      string
	Expected   models.FieldType
	Actual     any
	Index      int
}

func (e *TypeMismatchError) Error() string {
	field := e.Field
	expected := string(e.Expected)
	if e.Index >= 0 {
		field = fmt.Sprintf("%s[%d]", e.Field, e.Index)
		expected = string(models.FieldString)
	}
	return fmt.Sprintf("%s: field %q: expected %s, got %s", e.Collection, field, expected, describe(e.Actual))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ValidationError collects every issue found in one record, in schema field order.
type ValidationError struct {
	Collection string
	Issues     []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("invalid %s entry: %s", e.Collection, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Issues
}

// Issues flattens a Validate or GetSchema error into reportable issues.
// Errors of any other kind become a single issue carrying the error text.
func Issues(err error) []models.Issue {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		out := make([]models.Issue, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			out = append(out, toIssue(issue))
		}
		return out
	}
	return []models.Issue{toIssue(err)}
}

func toIssue(err error) models.Issue {
	var (
		unknown  *UnknownCollectionError
		missing  *MissingRequiredFieldError
		mismatch *TypeMismatchError
	)
	switch {
	case errors.As(err, &unknown):
		return models.Issue{Kind: "unknown_collection", Message: err.Error()}
	case errors.As(err, &missing):
		return models.Issue{Kind: "missing_required_field", Field: missing.Field, Message: err.Error()}
	case errors.As(err, &mismatch):
		field := mismatch.Field
		if mismatch.Index >= 0 {
			field = fmt.Sprintf("%s[%d]", mismatch.Field, mismatch.Index)
		}
		return models.Issue{
			Kind:     "type_mismatch",
			Field:    field,
			Expected: string(mismatch.Expected),
			Actual:   describe(mismatch.Actual),
			Message:  err.Error(),
		}
	default:
		return models.Issue{Kind: "error", Message: err.Error()}
	}
}

func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", val)
	default:
		return fmt.Sprintf("%T (%v)", v, v)
	}
}
