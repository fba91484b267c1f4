package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestSentinelErrors_AreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrNotFound, ErrValidation)
	assert.NotErrorIs(t, ErrValidation, ErrNotFound)
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StatusError
		expectedMsg string
	}{
		{
			name:        "with message",
			err:         &StatusError{Status: http.StatusNotFound, Message: "Account not found"},
			expectedMsg: "Account not found",
		},
		{
			name:        "without message uses status text",
			err:         &StatusError{Status: http.StatusConflict},
			expectedMsg: "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("La cuenta no fue encontrada")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, "La cuenta no fue encontrada", statusErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestWrapStatusError(t *testing.T) {
	cause := errors.New("invalid character")
	err := WrapStatusError(http.StatusBadRequest, "malformed body", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "malformed body", err.Error())
}

func TestValidationFailure_MessageKey(t *testing.T) {
	tests := []struct {
		template string
		expected string
	}{
		{template: "{constraints.NotNull.message}", expected: "constraints.NotNull.message"},
		{template: "constraints.NotNull.message", expected: "constraints.NotNull.message"},
		{template: "{unterminated", expected: "{unterminated"},
		{template: "{}", expected: ""},
		{template: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			f := ValidationFailure{MessageTemplate: tt.template}
			assert.Equal(t, tt.expected, f.MessageKey())
		})
	}
}

func TestValidationFailure_FieldPath(t *testing.T) {
	tests := []struct {
		name     string
		path     []PathNode
		expected string
	}{
		{
			name: "method node is dropped",
			path: []PathNode{
				{Name: "createAccount", Kind: NodeMethod},
				{Name: "createRequest", Kind: NodeParameter},
				{Name: "depositAcct", Kind: NodeProperty},
			},
			expected: "createRequest.depositAcct",
		},
		{
			name: "constructor node is dropped",
			path: []PathNode{
				{Name: "Account", Kind: NodeConstructor},
				{Name: "name", Kind: NodeProperty},
			},
			expected: "name",
		},
		{
			name: "indexed node",
			path: []PathNode{
				{Name: "batch", Kind: NodeParameter},
				{Name: "items", Kind: NodeProperty, Index: intPtr(2)},
				{Name: "id", Kind: NodeProperty},
			},
			expected: "batch.items[2].id",
		},
		{
			name: "trailing framing node adds no separator",
			path: []PathNode{
				{Name: "id", Kind: NodeProperty},
				{Name: "update", Kind: NodeMethod},
			},
			expected: "id",
		},
		{
			name:     "empty path",
			path:     nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ValidationFailure{Path: tt.path}
			assert.Equal(t, tt.expected, f.FieldPath())
		})
	}
}

func TestValidationFailures_Error(t *testing.T) {
	failures := ValidationFailures{
		{
			Path:            []PathNode{{Name: "req", Kind: NodeParameter}, {Name: "id", Kind: NodeProperty}},
			MessageTemplate: "{constraints.NotNull.message}",
		},
		{
			Path:            []PathNode{{Name: "req", Kind: NodeParameter}, {Name: "depositAcct", Kind: NodeProperty}},
			MessageTemplate: "{constraints.NotBlank.message}",
		},
	}

	assert.Equal(t,
		"validation failed: req.id: constraints.NotNull.message, req.depositAcct: constraints.NotBlank.message",
		failures.Error(),
	)
	assert.True(t, IsValidation(failures))
}

func TestErrorWrappingChain(t *testing.T) {
	t.Run("wrapped not found", func(t *testing.T) {
		err := fmt.Errorf("service: %w", NewNotFoundError("Account not found"))

		assert.True(t, IsNotFound(err))

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Status)
	})

	t.Run("wrapped validation failures", func(t *testing.T) {
		err := fmt.Errorf("binding: %w", ValidationFailures{{MessageTemplate: "{x}"}})

		var failures ValidationFailures
		require.ErrorAs(t, err, &failures)
		assert.Len(t, failures, 1)
		assert.True(t, IsValidation(err))
	})
}

func TestAccount_Persisted(t *testing.T) {
	id := int64(7)

	assert.False(t, (*Account)(nil).Persisted())
	assert.False(t, (&Account{}).Persisted())
	assert.True(t, (&Account{ID: &id}).Persisted())
}
