package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MessageNotBlank = "This value should not be blank."
	MessageNotNull  = "This value should not be null."
	MessageEmail    = "This value is not a valid email address."
	MessagePattern  = "This value is not valid."
	MessageChoice   = "The value you selected is not a valid choice."
	MessageUnique   = "This value is already used."
	MessageType     = "This value should be of type %s."
)

var validate = validator.New()

// Rule is a single pure predicate on a field value. Check returns the
// violation message and false when the value fails.
type Rule interface {
	Check(value any) (string, bool)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(value any) (string, bool)

func (f RuleFunc) Check(value any) (string, bool) {
	return f(value)
}

// NotBlank rejects nil, empty strings and zero values.
func NotBlank() Rule {
	return tagRule("required", MessageNotBlank, false)
}

// NotNull rejects nil and zero ids.
func NotNull() Rule {
	return tagRule("required", MessageNotNull, false)
}

// Length bounds the number of characters of a string. Nil is ignored.
func Length(min, max int) Rule {
	return RuleFunc(func(value any) (string, bool) {
		s, ok := stringValue(value)
		if !ok {
			return "", true
		}
		if validate.Var(s, fmt.Sprintf("min=%d", min)) != nil {
			return fmt.Sprintf("This value is too short. It should have %d characters or more.", min), false
		}
		if validate.Var(s, fmt.Sprintf("max=%d", max)) != nil {
			return fmt.Sprintf("This value is too long. It should have %d characters or less.", max), false
		}
		return "", true
	})
}

// MaxLength bounds a string from above only. Nil is ignored.
func MaxLength(max int) Rule {
	return RuleFunc(func(value any) (string, bool) {
		s, ok := stringValue(value)
		if !ok {
			return "", true
		}
		if validate.Var(s, fmt.Sprintf("max=%d", max)) != nil {
			return fmt.Sprintf("This value is too long. It should have %d characters or less.", max), false
		}
		return "", true
	})
}

// Email checks the email shape. Empty values are left to NotBlank.
func Email() Rule {
	return tagRule("email", MessageEmail, true)
}

// Pattern requires a full match of re. Empty values are left to NotBlank.
func Pattern(re *regexp.Regexp, message string) Rule {
	if message == "" {
		message = MessagePattern
	}
	return RuleFunc(func(value any) (string, bool) {
		s, ok := stringValue(value)
		if !ok || s == "" {
			return "", true
		}
		if !re.MatchString(s) {
			return message, false
		}
		return "", true
	})
}

// Choice requires membership in choices.
func Choice(choices ...string) Rule {
	return tagRule("oneof="+strings.Join(choices, " "), MessageChoice, true)
}

// tagRule runs a validator tag against the dereferenced value. With skipEmpty,
// nil and empty strings pass so the rule composes with NotBlank.
func tagRule(tag, message string, skipEmpty bool) Rule {
	return RuleFunc(func(value any) (string, bool) {
		value = deref(value)
		if skipEmpty {
			if value == nil {
				return "", true
			}
			if s, ok := value.(string); ok && s == "" {
				return "", true
			}
		}
		if value == nil {
			return message, false
		}
		if err := validate.Var(value, tag); err != nil {
			return message, false
		}
		return "", true
	})
}

func deref(value any) any {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *uint64:
		if v == nil {
			return nil
		}
		return *v
	case *bool:
		if v == nil {
			return nil
		}
		return *v
	}
	return value
}

func stringValue(value any) (string, bool) {
	s, ok := deref(value).(string)
	return s, ok
}
