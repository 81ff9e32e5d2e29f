package document

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appdomain "github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), "http://localhost:8080", "test-secret")
}

func TestStore_UploadAndRead(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Upload([]byte("%PDF-fake"), "APP-1.pdf", "application/pdf", "application-summaries")
	require.NoError(t, err)
	assert.Equal(t, "application-summaries/APP-1.pdf", key)

	data, err := store.Read(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
}

func TestStore_UploadValidation(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upload([]byte("x"), "", "application/pdf", "bucket")
	assert.Error(t, err)
	_, err = store.Upload([]byte("x"), "a.pdf", "application/pdf", "")
	assert.Error(t, err)

	// 路径穿越的文件名只保留末段
	key, err := store.Upload([]byte("x"), "../../etc/passwd", "text/plain", "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket/passwd", key)
}

func TestStore_SignedURLRoundTrip(t *testing.T) {
	store := newTestStore(t)
	key, err := store.Upload([]byte("doc"), "APP-1.pdf", "application/pdf", "application-summaries")
	require.NoError(t, err)

	signed, err := store.SignedURL(key, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:8080/documents/"+key+"?"))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	signature := u.Query().Get("signature")

	assert.NoError(t, store.Verify(key, expires, signature))
}

func TestStore_VerifyRejectsTamperedSignature(t *testing.T) {
	store := newTestStore(t)
	expires := time.Now().Add(time.Hour).Unix()

	err := store.Verify("bucket/APP-1.pdf", expires, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStore_VerifyRejectsExpired(t *testing.T) {
	store := newTestStore(t)
	key := "bucket/APP-1.pdf"
	expires := time.Now().Add(-time.Minute).Unix()
	sig := store.sign(key, expires)

	assert.ErrorIs(t, store.Verify(key, expires, sig), ErrInvalidSignature)
}

func TestStore_VerifyRejectsKeySwap(t *testing.T) {
	store := newTestStore(t)
	expires := time.Now().Add(time.Hour).Unix()
	sig := store.sign("bucket/APP-1.pdf", expires)

	assert.ErrorIs(t, store.Verify("bucket/APP-2.pdf", expires, sig), ErrInvalidSignature)
}

func TestStore_MalformedKeys(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"", "nobucket", "/leading", "trailing/", "a/b/c"} {
		_, err := store.SignedURL(key, time.Minute)
		assert.Error(t, err, fmt.Sprintf("key %q", key))
		_, err = store.Read(key)
		assert.Error(t, err, fmt.Sprintf("key %q", key))
	}
}

func TestRenderSummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	app := appdomain.NewApplication("APP-1", "stu-1", "com-1", "job-1",
		"I am a strong fit for this role.",
		map[string]any{"university": "Example U", "graduation_year": 2027},
		[]string{"resume.pdf", "transcript.pdf"},
		time.Time{}, now)

	data, err := RenderSummary(SummaryInput{Application: app, JobTitle: "Backend Intern", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.True(t, strings.HasPrefix(string(data[:5]), "%PDF-"))
}

func TestRenderSummary_RequiresApplication(t *testing.T) {
	_, err := RenderSummary(SummaryInput{})
	assert.Error(t, err)
}
