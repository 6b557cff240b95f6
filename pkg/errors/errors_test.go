package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFixture, "test message: %s", "value")

	if err.Code != ErrCodeInvalidFixture {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFixture)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_FIXTURE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidFormat, cause, "failed to decode")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidOperation, "test"),
			code:     ErrCodeInvalidOperation,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidOperation, "test"),
			code:     ErrCodeCapacityExceeded,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidFixture, New(ErrCodeInvalidFlags, "inner"), "outer"),
			code:     ErrCodeInvalidFixture,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNotImplemented, "test"),
			expected: ErrCodeNotImplemented,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFatalRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		Fatal(ErrCodeInvalidOperation, "cannot insert %s", "root")
		return nil
	}

	err := run()
	if !Is(err, ErrCodeInvalidOperation) {
		t.Fatalf("Recover() = %v, want code %v", err, ErrCodeInvalidOperation)
	}
	if got := UserMessage(err); got != "cannot insert root" {
		t.Errorf("UserMessage() = %q, want %q", got, "cannot insert root")
	}
}

func TestRecoverNoPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		return nil
	}
	if err := run(); err != nil {
		t.Errorf("Recover() = %v, want nil", err)
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want boom", r)
		}
	}()

	func() {
		var err error
		defer Recover(&err)
		panic("boom")
	}()
}

func TestMismatchError(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		err := &MismatchError{Fixture: "toolbar", Differences: 1}
		expected := `fixture "toolbar" differs from baseline in 1 box`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("plural", func(t *testing.T) {
		err := &MismatchError{Fixture: "toolbar", Differences: 3}
		expected := `fixture "toolbar" differs from baseline in 3 boxes`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &MismatchError{}
		if err.Code() != ErrCodeBaselineMismatch {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeBaselineMismatch)
		}
	})

	t.Run("matches code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("check: %w", &MismatchError{Fixture: "toolbar", Differences: 2})
		if !Is(err, ErrCodeBaselineMismatch) {
			t.Errorf("Is(%v, BASELINE_MISMATCH) = false", err)
		}
	})
}
