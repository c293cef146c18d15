package pig

import (
	"fmt"
	"unicode/utf8"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/schema"
)

// DefaultMaxTitleLength is the title length cap applied when none is
// configured. Titles longer than this overflow the downstream feed.
const DefaultMaxTitleLength = 100

// ValidationError describes one failed entry rule.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// Validator checks a mapped record against the entry rules before it may be
// accepted into the dataset. Validation is advisory at entry time only: a
// failure blocks acceptance with a message but never mutates the record.
type Validator struct {
	maxTitleLength int
}

// NewValidator returns a validator with the given title length cap.
// Non-positive caps fall back to DefaultMaxTitleLength.
func NewValidator(maxTitleLength int) Validator {
	if maxTitleLength <= 0 {
		maxTitleLength = DefaultMaxTitleLength
	}
	return Validator{maxTitleLength: maxTitleLength}
}

// Validate runs every entry rule against the record and returns the first
// failure wrapped for user display, or nil when the record may be accepted.
func (v Validator) Validate(r schema.Record) error {
	title, _ := r.Value(schema.FieldProductTitle)
	if ve := v.CheckTitle(title); ve != nil {
		return errs.Wrap(errs.KindValidation, "pig.Validate", ve)
	}
	return nil
}

// CheckTitle enforces the title length rule. The sentinel counts as absent,
// not as a 10-character title. Length is measured in characters, not bytes.
func (v Validator) CheckTitle(title string) *ValidationError {
	if title == schema.Sentinel {
		return nil
	}
	n := utf8.RuneCountInString(title)
	if n <= v.maxTitleLength {
		return nil
	}
	return &ValidationError{
		Field: schema.FieldProductTitle,
		Value: title,
		Message: fmt.Sprintf(
			"Product Title is too long (%d characters). Maximum allowed is %d characters. Check for a second line hidden in the formula bar.",
			n, v.maxTitleLength),
	}
}
