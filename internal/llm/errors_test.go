package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(TransportFailure, Groq, "request failed", cause)

	assert.Equal(t, "groq: request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("attempt: %w", NewError(MalformedResponse, Gemini, "no candidates", nil))

	assert.Equal(t, MalformedResponse, KindOf(wrapped))
	assert.Equal(t, TransportFailure, KindOf(errors.New("boom")))
}
