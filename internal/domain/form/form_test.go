package form

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"aggyweb/internal/schema"
)

type apiErr struct{ code schema.ErrorCode }

func (e apiErr) Error() string               { return "api: " + string(e.code) }
func (e apiErr) ErrorCode() schema.ErrorCode { return e.code }

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		msgs        Messages
		wantOutcome Outcome
		wantForm    string
		wantFields  []string
	}{
		{
			name:        "username occupied",
			err:         fmt.Errorf("register: %w", apiErr{code: schema.CodeUsernameOccupied}),
			msgs:        DefaultMessages,
			wantOutcome: Handled,
			wantForm:    "Username is already in use",
		},
		{
			name:        "credentials rejected",
			err:         apiErr{code: schema.CodeCredentialsRejected},
			msgs:        DefaultMessages,
			wantOutcome: Handled,
			wantForm:    "Credentials rejected: username or password is wrong",
		},
		{
			name: "validation",
			err: &schema.ValidationError{Endpoint: schema.Register, Issues: []schema.Issue{
				{Field: "username", Message: "expected length >= 5"},
			}},
			msgs:        DefaultMessages,
			wantOutcome: Handled,
			wantForm:    "Validation error: username: expected length >= 5",
			wantFields:  []string{"username"},
		},
		{
			name:        "code without message is a server error",
			err:         apiErr{code: schema.CodeInternal},
			msgs:        DefaultMessages,
			wantOutcome: ServerError,
			wantForm:    ServerErrorMessage,
		},
		{
			name:        "opaque failure",
			err:         errors.New("dial tcp: connection refused"),
			msgs:        DefaultMessages,
			wantOutcome: ServerError,
			wantForm:    ServerErrorMessage,
		},
		{
			name:        "contract violation",
			err:         &schema.ContractError{Endpoint: schema.GetPost, Status: 200, Reason: "drift"},
			msgs:        DefaultMessages,
			wantOutcome: Fatal,
		},
		{
			name:        "override",
			err:         apiErr{code: schema.CodeNotFound},
			msgs:        DefaultMessages.With(Messages{schema.CodeNotFound: "Comment is gone."}),
			wantOutcome: Handled,
			wantForm:    "Comment is gone.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, outcome := Resolve(tt.err, tt.msgs)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantForm, res.FormError)
			for _, f := range tt.wantFields {
				assert.Contains(t, res.FieldErrors, f)
			}
		})
	}
}

func TestMessages_WithDoesNotMutate(t *testing.T) {
	merged := DefaultMessages.With(Messages{
		schema.CodeNotFound:       "x",
		schema.CodeParentNotFound: "y",
	})

	assert.Equal(t, "x", merged[schema.CodeNotFound])
	assert.Equal(t, "y", merged[schema.CodeParentNotFound])
	assert.Equal(t, DefaultMessages[schema.CodeAccessDenied], merged[schema.CodeAccessDenied])
	assert.Len(t, merged, len(DefaultMessages)+1)

	assert.Equal(t, "Post is no longer available.", DefaultMessages[schema.CodeNotFound])
	assert.NotContains(t, DefaultMessages, schema.CodeParentNotFound)
}

func TestResult_Empty(t *testing.T) {
	assert.True(t, Result{}.Empty())
	assert.False(t, Result{FormError: "x"}.Empty())
}
