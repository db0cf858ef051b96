package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aggyweb/internal/model"
)

func TestEncodeBody_CreateUser(t *testing.T) {
	reg := New()

	tests := []struct {
		name       string
		body       model.CreateUserBody
		wantFields []string
	}{
		{
			name: "valid",
			body: model.CreateUserBody{Username: "bobby", Password: "password1", Email: model.Optional("bob@example.com")},
		},
		{
			name: "valid without email",
			body: model.CreateUserBody{Username: "bob_by-2", Password: "password1"},
		},
		{
			name:       "short username and password",
			body:       model.CreateUserBody{Username: "abcd", Password: "short", Email: model.Optional("x@x.com")},
			wantFields: []string{"username", "password"},
		},
		{
			name:       "username with trailing separator",
			body:       model.CreateUserBody{Username: "bobby_", Password: "password1"},
			wantFields: []string{"username"},
		},
		{
			name:       "bad email",
			body:       model.CreateUserBody{Username: "bobby", Password: "password1", Email: model.Optional("nope")},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := reg.EncodeBody(Register, tt.body)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Contains(t, string(raw), tt.body.Username)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, Register, verr.Endpoint)
			fields := verr.Fields()
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestEncodeBody_UpdateSessionSendsNull(t *testing.T) {
	reg := New()

	raw, err := reg.EncodeBody(UpdateSession, model.UpdateSessionBody{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"authSessionId":null}`, string(raw))

	_, err = reg.EncodeBody(UpdateSession, model.UpdateSessionBody{AuthSessionID: model.Optional("not-a-uuid")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEncodeQuery(t *testing.T) {
	reg := New()

	limit := 20
	order := model.Descending
	values, err := reg.EncodeQuery(ListPosts, model.ListPostsQuery{Limit: &limit, SortingOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, "20", values.Get("limit"))
	assert.Equal(t, "descending", values.Get("sortingOrder"))
	assert.False(t, values.Has("authToken"))

	tooMany := 500
	_, err = reg.EncodeQuery(ListPosts, model.ListPostsQuery{Limit: &tooMany})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "limit")

	values, err = reg.EncodeQuery(GetGram, model.RepliesQuery{IncludeReplies: true})
	require.NoError(t, err)
	assert.Equal(t, "true", values.Get("includeReplies"))
}

func TestPath(t *testing.T) {
	reg := New()

	p, err := reg.Path(GetSession, "0b0e3f8e-6b8f-4a55-9a51-5b8e3c1f9a10")
	require.NoError(t, err)
	assert.Equal(t, "/web/sessions/0b0e3f8e-6b8f-4a55-9a51-5b8e3c1f9a10", p)

	_, err = reg.Path(GetSession, "../../admin")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	p, err = reg.Path(Reply, "gram/1")
	require.NoError(t, err)
	assert.Equal(t, "/grams/gram%2F1/replies", p)

	_, err = reg.Path(GetGram, "")
	require.Error(t, err)

	p, err = reg.Path(ListPosts, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "/posts", p)
}

const sessionJSON = `{
	"id": "0b0e3f8e-6b8f-4a55-9a51-5b8e3c1f9a10",
	"ipAddr": "127.0.0.1",
	"userAgent": "test",
	"expiresAt": "2030-01-01T00:00:00Z",
	"createdAt": "2024-01-01T00:00:00Z",
	"updatedAt": "2024-01-01T00:00:00Z",
	"userId": null,
	"token": null,
	"extra": "passes through"
}`

func TestDecodeResponse(t *testing.T) {
	reg := New()

	var s model.Session
	require.NoError(t, reg.DecodeResponse(GetSession, 200, []byte(sessionJSON), &s))
	assert.Equal(t, "0b0e3f8e-6b8f-4a55-9a51-5b8e3c1f9a10", s.ID)
	assert.Nil(t, s.Token)
	assert.Equal(t, 2030, s.ExpiresAt.Year())

	err := reg.DecodeResponse(GetSession, 200, []byte(`{"id":"0b0e3f8e-6b8f-4a55-9a51-5b8e3c1f9a10"}`), &s)
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, GetSession, cerr.Endpoint)
	assert.NotEmpty(t, cerr.Issues)

	err = reg.DecodeResponse(GetSession, 200, []byte(`<html>`), &s)
	require.ErrorAs(t, err, &cerr)
}

func TestDecodeResponse_GramTree(t *testing.T) {
	reg := New()

	raw := `{
		"id": "root", "createdAt": "2024-01-01T00:00:00Z", "content": "hi", "coty": "text",
		"authorPubkey": "pk", "sig": "s",
		"replies": [
			{"id": "a", "createdAt": "2024-01-01T00:00:00Z", "content": "x", "coty": "text",
			 "parentId": "root", "authorPubkey": "pk", "sig": "s",
			 "topFaces": {"b": {"count": 2, "userFacedAt": "2024-01-02T00:00:00Z"}}}
		]
	}`

	var g model.Gram
	require.NoError(t, reg.DecodeResponse(GetGram, 200, []byte(raw), &g))
	require.Len(t, g.Replies, 1)
	assert.Equal(t, "root", *g.Replies[0].ParentID)
	assert.Equal(t, model.ActionUnface, g.Replies[0].FaceAction("b"))

	bad := `{"id": "root", "createdAt": "2024-01-01T00:00:00Z", "content": "hi", "coty": "text",
		"authorPubkey": "pk", "sig": "s", "replies": [{"id": "a"}]}`
	var cerr *ContractError
	require.ErrorAs(t, reg.DecodeResponse(GetGram, 200, []byte(bad), &g), &cerr)
}

func TestDecodeError(t *testing.T) {
	reg := New()

	code, v, err := reg.DecodeError(Register, 400, []byte(`{"error":"usernameOccupied","username":"bob"}`))
	require.NoError(t, err)
	assert.Equal(t, CodeUsernameOccupied, code)
	assert.Equal(t, "bob", v.(UsernameOccupied).Username)

	code, _, err = reg.DecodeError(Register, 404, []byte(`{"error":"notFound","id":"x"}`))
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CodeNotFound, code)

	code, _, err = reg.DecodeError(Register, 500, []byte(`{"error":"internal"}`))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CodeInternal, code)

	code, _, err = reg.DecodeError(Register, 500, []byte(`{"message":"boom"}`))
	require.ErrorAs(t, err, &cerr)
	assert.Empty(t, code)
}

type coded struct{ code ErrorCode }

func (c coded) Error() string        { return string(c.code) }
func (c coded) ErrorCode() ErrorCode { return c.code }

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(coded{code: CodeNotFound}))
	assert.Equal(t, CodeAccessDenied, CodeOf(errors.Join(errors.New("wrap"), coded{code: CodeAccessDenied})))
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.Empty(t, CodeOf(nil))
}

func TestEndpoint_Allows(t *testing.T) {
	ep, ok := New().Endpoint(Reply)
	require.True(t, ok)

	assert.True(t, ep.Allows(CodeNotFound))
	assert.True(t, ep.Allows(CodeAccessDenied))
	assert.False(t, ep.Allows(CodeParentNotFound))
	assert.False(t, ep.Allows(ErrorCode("")))
}
