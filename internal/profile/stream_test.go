package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, body string) []Snapshot {
	t.Helper()
	s := &Stream{DatabaseURL: "https://example.firebaseio.com"}
	var got []Snapshot
	s.consume(context.Background(), strings.NewReader(body), "uid", "token", func(snap Snapshot) {
		got = append(got, snap)
	})
	return got
}

func TestConsumeRootPut(t *testing.T) {
	body := "event: put\n" +
		`data: {"path":"/","data":{"email":"a@b.com","createdAt":"2026-01-01","profileComplete":true,"fullName":"Ana"}}` + "\n\n"

	got := collect(t, body)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Profile)
	assert.True(t, got[0].Profile.ProfileComplete)
	assert.Equal(t, "Ana", got[0].Profile.FullName)
}

func TestConsumeNullRecord(t *testing.T) {
	body := "event: put\n" + `data: {"path":"/","data":null}` + "\n\n"

	got := collect(t, body)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Profile)
	assert.NoError(t, got[0].Err)
}

func TestConsumeKeepAliveIgnored(t *testing.T) {
	body := "event: keep-alive\ndata: null\n\n" +
		"event: put\n" + `data: {"path":"/","data":{"email":"a@b.com"}}` + "\n\n"

	got := collect(t, body)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Profile)
	assert.Equal(t, "a@b.com", got[0].Profile.Email)
}

func TestConsumeAuthRevokedTerminates(t *testing.T) {
	body := "event: auth_revoked\ndata: null\n\n" +
		"event: put\n" + `data: {"path":"/","data":{"email":"late"}}` + "\n\n"

	got := collect(t, body)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Profile)
	assert.Error(t, got[0].Err)
}

func TestConsumeMalformedFrame(t *testing.T) {
	body := "event: put\ndata: not-json\n\n"

	got := collect(t, body)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Profile, "malformed frame reads as no profile")
	assert.Error(t, got[0].Err)
}
