package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindBody(t *testing.T, body string, dst any) ([]string, error) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return bind(r, dst)
}

func TestBindSignUp(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"valid", `{"username":"ana","avatar":"https://x.test/a.png"}`, nil},
		{"empty body", ``, []string{`"username" is required`, `"avatar" is required`}},
		{"missing avatar", `{"username":"ana"}`, []string{`"avatar" is required`}},
		{"empty username", `{"username":"","avatar":"https://x.test/a.png"}`, []string{`"username" is not allowed to be empty`}},
		{"bad uri", `{"username":"ana","avatar":"not a uri"}`, []string{`"avatar" must be a valid uri`}},
		{"space in uri", `{"username":"ana","avatar":"https://x.test/a b.png"}`, []string{`"avatar" must be a valid uri`}},
		{"no scheme", `{"username":"ana","avatar":"x.test/a.png"}`, []string{`"avatar" must be a valid uri`}},
		{"short ftp uri", `{"username":"ana","avatar":"ftp:/a"}`, nil},
		{"percent encoded", `{"username":"ana","avatar":"https://x.test/a%20b.png?s=48#top"}`, nil},
		{"bad percent escape", `{"username":"ana","avatar":"https://x.test/a%zz.png"}`, []string{`"avatar" must be a valid uri`}},
		{"null body", `null`, []string{`"value" must be of type object`}},
		{"null field", `{"username":null,"avatar":"https://x.test/a.png"}`, []string{`"username" must be a string`}},
		{"field order", `{"avatar":"bad","username":""}`, []string{`"username" is not allowed to be empty`, `"avatar" must be a valid uri`}},
		{"wrong type", `{"username":42,"avatar":"https://x.test/a.png"}`, []string{`"username" must be a string`}},
		{"not an object", `["ana"]`, []string{`"value" must be of type object`}},
		{"unknown key", `{"username":"ana","avatar":"https://x.test/a.png","admin":true}`, []string{`"admin" is not allowed`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req SignUpRequest
			msgs, err := bindBody(t, tt.body, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msgs)
		})
	}
}

func TestBindValidSetsFields(t *testing.T) {
	var req CreateTweetRequest
	msgs, err := bindBody(t, `{"username":"ana","tweet":"hello"}`, &req)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.NotNil(t, req.Username)
	require.NotNil(t, req.Tweet)
	assert.Equal(t, "ana", *req.Username)
	assert.Equal(t, "hello", *req.Tweet)
}

func TestBindMalformed(t *testing.T) {
	var req UpdateTweetRequest
	_, err := bindBody(t, `{"tweet":`, &req)
	assert.ErrorIs(t, err, errMalformedBody)
}

func TestBindReportsEveryViolation(t *testing.T) {
	var req UpdateTweetRequest
	msgs, err := bindBody(t, `{"tweet":"","extra":1,"another":2}`, &req)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`"tweet" is not allowed to be empty`,
		`"another" is not allowed`,
		`"extra" is not allowed`,
	}, msgs)
}
