package lib

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"uservice/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	uid := uuid.New()

	raw, claims, err := svc.Issue(uid)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	got, err := svc.Verify(raw)
	require.NoError(t, err)
	id, err := UserID(got)
	require.NoError(t, err)
	assert.Equal(t, uid, id)
	assert.Equal(t, claims.ID, got.ID)
}

func TestTokenRejections(t *testing.T) {
	now := time.Now()
	svc := NewTokenService("secret", time.Hour).WithClock(func() time.Time { return now })
	raw, _, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = NewTokenService("other", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	later := NewTokenService("secret", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = later.Verify(raw)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, CheckPassword(hash, "Secret123"))
	assert.False(t, CheckPassword(hash, "secret123"))
}

func TestOneTimeToken(t *testing.T) {
	raw, digest, err := NewOneTimeToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, digest, DigestToken(raw))
	assert.NotEqual(t, raw, digest)
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(&SendMailInput{
		From:     "noreply@uservice.local",
		FromName: "Uservice",
		To:       []string{"guest@example.com"},
		Subject:  "Booking received",
		Body:     "<p>Thanks</p>",
		Html:     true,
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Subject: Booking received")
	assert.Contains(t, out, "guest@example.com")
	assert.Contains(t, out, "text/html")

	_, err = BuildMessage(&SendMailInput{From: "not an address", To: []string{"a@b.c"}})
	assert.Error(t, err)
}

func TestReadImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	img, err := ReadImage(bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)

	_, err = ReadImage(strings.NewReader("plain text is not an image"))
	var verr *types.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = ReadImage(bytes.NewReader(nil))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	key := ImageKey("venues", uuid.Nil, ".png")
	assert.True(t, strings.HasPrefix(key, "venues/00000000-0000-0000-0000-000000000000/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestScheduleEvery(t *testing.T) {
	sched, err := NewScheduler()
	require.NoError(t, err)
	defer sched.Shutdown()

	_, err = ScheduleEvery(sched, "noop", time.Hour, time.Second, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	jobs := sched.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "noop", jobs[0].Name())
}
