package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "crate not found")
		if err.Error() != "[NOT_FOUND] crate not found" {
			t.Errorf("expected [NOT_FOUND] crate not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("connection refused")
		err := Wrap(original, CodeNetwork, "registry unreachable")
		expected := "[NETWORK] registry unreachable: connection refused"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeConfig, "package_name is required")
		if !IsCode(err, CodeConfig) {
			t.Error("expected IsCode to return true for CodeConfig")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		inner := New(CodeFormat, "max_version missing")
		outer := Wrap(inner, CodeNetwork, "fetch failed")
		if !IsCode(outer, CodeNetwork) {
			t.Error("expected outer code to win")
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		if CodeOf(New(CodeNotFound, "x")) != CodeNotFound {
			t.Error("expected NOT_FOUND")
		}
		if CodeOf(errors.New("plain")) != CodeInternal {
			t.Error("expected foreign errors to map to INTERNAL")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeNotFound, "crate not found")
		err = AddContext(err, CtxPackage, "serde")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPackage] != "serde" {
			t.Errorf("expected context package serde, got %v", de.Context[CtxPackage])
		}
	})
}
