package backend

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/logiadmin/internal/domain"
)

func TestUnwrapEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"envelope", `{"success":true,"data":{"userid":1}}`, `{"userid":1}`},
		{"envelope with array", `{"success":true,"data":[1,2]}`, `[1,2]`},
		{"bare array", ` [1,2] `, `[1,2]`},
		{"bare object", `{"userid":7,"userName":"Kim"}`, `{"userid":7,"userName":"Kim"}`},
		{"object with data but no success", `{"data":1}`, `{"data":1}`},
		{"success without data", `{"success":true}`, ``},
		{"success with null data", `{"success":true,"data":null}`, ``},
		{"empty body", ``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrapEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestUnwrapEnvelopeFailures(t *testing.T) {
	_, err := unwrapEnvelope([]byte(`{"success":false,"message":"bad password"}`))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "bad password", statusErr.Message)
	assert.ErrorIs(t, err, ErrRejected)

	_, err = unwrapEnvelope([]byte(`<html>`))
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	_, err = unwrapEnvelope([]byte(`{"success":`))
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestUnwrapList(t *testing.T) {
	got, err := unwrapList([]byte(`{"menus":[{"menuId":1}],"total":1}`), "menus", "data")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"menuId":1}]`, string(got))

	got, err = unwrapList(nil, "menus")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	_, err = unwrapList([]byte(`{"other":{}}`), "menus")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestStatusErrorUnwrap(t *testing.T) {
	tests := []struct {
		status int
		want   []error
		not    []error
	}{
		{http.StatusUnauthorized, []error{domain.ErrUnauthorized}, []error{domain.ErrForbidden}},
		{http.StatusForbidden, []error{domain.ErrForbidden, domain.ErrUnauthorized}, nil},
		{http.StatusNotFound, []error{domain.ErrNotFound}, []error{ErrRejected}},
		{http.StatusBadGateway, []error{domain.ErrBackendUnavailable}, nil},
		{http.StatusBadRequest, []error{ErrRejected}, []error{domain.ErrUnauthorized}},
	}

	for _, tt := range tests {
		err := error(&StatusError{Endpoint: "x", StatusCode: tt.status})
		for _, target := range tt.want {
			assert.True(t, errors.Is(err, target), "status %d should match %v", tt.status, target)
		}
		for _, target := range tt.not {
			assert.False(t, errors.Is(err, target), "status %d should not match %v", tt.status, target)
		}
	}
}
