package linking_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack-server/src/linking"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want linking.Kind
	}{
		{name: "Unauthorized", err: linking.ErrUnauthorized, want: linking.KindUnauthorized},
		{name: "Wrapped", err: fmt.Errorf("handler: %w", linking.ErrNoLinkedAccounts), want: linking.KindNoLinkedAccounts},
		{name: "UpstreamRejected", err: linking.UpstreamRejected("bad token", errors.New("INVALID_INPUT")), want: linking.KindUpstreamRejected},
		{name: "Unclassified", err: errors.New("boom"), want: linking.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linking.KindOf(tt.err))
		})
	}
}

func TestMessageOf_HidesCause(t *testing.T) {
	err := linking.UpstreamUnavailable("Failed to reach bank", errors.New("dial tcp: access-sandbox-123"))

	assert.Equal(t, "Failed to reach bank", linking.MessageOf(err))
	assert.Equal(t, "Internal server error", linking.MessageOf(errors.New("pq: secret detail")))
}

func TestParseRelinkPolicy(t *testing.T) {
	p, err := linking.ParseRelinkPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, linking.RelinkSkip, p)

	p, err = linking.ParseRelinkPolicy(" Update ")
	assert.NoError(t, err)
	assert.Equal(t, linking.RelinkUpdate, p)

	_, err = linking.ParseRelinkPolicy("merge")
	assert.Error(t, err)
}
