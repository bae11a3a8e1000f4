// Package validate holds the precondition checks shared by all aggregates.
//
// Failures come in three kinds. Argument errors mean the caller passed
// malformed input and carry the offending parameter name. Rule errors mean the
// input was well formed but a domain rule rejects the operation. Permission
// errors are rule errors caused specifically by an actor lacking rights, kept
// distinguishable so the transport layer can answer 403 instead of 409.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrArgument   = errors.New("invalid argument")
	ErrRule       = errors.New("business rule violation")
	ErrPermission = errors.New("permission denied")
)

// FutureDateSkew is the clock-skew buffer applied by FutureDate checks.
const FutureDateSkew = 5 * time.Minute

type ArgumentError struct {
	Param   string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func (e *RuleError) Is(target error) bool { return target == ErrRule }

type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

// PermissionError is a specialization of a rule violation.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission || target == ErrRule
}

func Argument(param, msg string) error {
	return &ArgumentError{Param: strings.TrimSpace(param), Message: strings.TrimSpace(msg)}
}

func Rule(msg string) error { return &RuleError{Message: strings.TrimSpace(msg)} }

func Rulef(format string, args ...interface{}) error {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

func Permission(msg string) error { return &PermissionError{Message: strings.TrimSpace(msg)} }

func Permissionf(format string, args ...interface{}) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

func IsArgument(err error) bool   { return errors.Is(err, ErrArgument) }
func IsRule(err error) bool       { return errors.Is(err, ErrRule) }
func IsPermission(err error) bool { return errors.Is(err, ErrPermission) }

// NotBlank rejects empty or whitespace-only strings.
func NotBlank(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return Argument(param, "must not be empty")
	}
	return nil
}

// MinLength and MaxLength bound the trimmed value in characters, not bytes;
// multibyte names count one per rune.
func MinLength(param, value string, min int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return Argument(param, fmt.Sprintf("must be at least %d characters", min))
	}
	return nil
}

func MaxLength(param, value string, max int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		return Argument(param, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func Positive(param string, value int) error {
	if value <= 0 {
		return Argument(param, "must be positive")
	}
	return nil
}

func PositiveOrZero(param string, value int) error {
	if value < 0 {
		return Argument(param, "must not be negative")
	}
	return nil
}

func InRange(param string, value, min, max int) error {
	if value < min || value > max {
		return Argument(param, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return nil
}

// FutureDate requires t to lie strictly past now plus the skew buffer.
func FutureDate(param string, t time.Time, now time.Time, skew time.Duration) error {
	if !t.After(now.Add(skew)) {
		return Argument(param, "must be in the future")
	}
	return nil
}

// FutureDateOrNil applies FutureDate only when t is set.
func FutureDateOrNil(param string, t *time.Time, now time.Time, skew time.Duration) error {
	if t == nil {
		return nil
	}
	return FutureDate(param, *t, now, skew)
}

func PastDate(param string, t time.Time, now time.Time) error {
	if !t.Before(now) {
		return Argument(param, "must be in the past")
	}
	return nil
}

func NotNil(param string, v interface{}) error {
	if v == nil {
		return Argument(param, "must not be nil")
	}
	return nil
}

func NotEmpty[T any](param string, s []T) error {
	if len(s) == 0 {
		return Argument(param, "must not be empty")
	}
	return nil
}

func MaxCount[T any](param string, s []T, max int) error {
	if len(s) > max {
		return Argument(param, fmt.Sprintf("must contain at most %d items", max))
	}
	return nil
}

// Email enforces the RFC 5321 length bounds and a minimal shape check.
// Anything stricter is left to the mail system; deliverability cannot be
// validated syntactically.
func Email(param, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return Argument(param, "must not be empty")
	}
	if len(value) > 254 {
		return Argument(param, "must be at most 254 characters")
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return Argument(param, "must be a valid email address")
	}
	if len(value[:at]) > 64 {
		return Argument(param, "local part must be at most 64 characters")
	}
	return nil
}

// BusinessRule raises a rule error when the condition does not hold.
func BusinessRule(ok bool, msg string) error {
	if !ok {
		return Rule(msg)
	}
	return nil
}

// BusinessRuleFn evaluates the condition lazily; useful when the check itself
// is costly and chained after cheaper guards.
func BusinessRuleFn(fn func() bool, msg string) error {
	if fn == nil || !fn() {
		return Rule(msg)
	}
	return nil
}

// All runs checks in order and returns the first failure.
func All(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
