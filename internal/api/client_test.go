package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/testutil"
)

func TestLogin_Success(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "user@example.com", "hunter2", "tok123")
	c := NewClient(fake.URL() + "/")

	token, err := c.Login(context.Background(), "user@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestLogin_WrongPassword(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "user@example.com", "hunter2", "tok123")
	c := NewClient(fake.URL())

	token, err := c.Login(context.Background(), "user@example.com", "wrong")
	assert.Empty(t, token)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr), "expected AuthenticationError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
}

func TestLogin_ServerErrorIsAuthenticationError(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "user@example.com", "hunter2", "tok123")
	fake.FailLogin(http.StatusInternalServerError)
	c := NewClient(fake.URL())

	_, err := c.Login(context.Background(), "user@example.com", "hunter2")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestLogin_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "a", "b")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestLogin_SendsFormFields(t *testing.T) {
	var gotCT, gotUser, gotPass, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = r.ParseForm()
		gotUser = r.PostForm.Get("username")
		gotPass = r.PostForm.Get("password")
		_, _ = w.Write([]byte(`{"access_token":"t"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "me@x.org", "p@ss word")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotCT)
	assert.Equal(t, "me@x.org", gotUser)
	assert.Equal(t, "p@ss word", gotPass)
	assert.Len(t, gotReqID, 36)
}

func TestCreateAnalysis_NoFileMakesNoRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	err := NewClient(srv.URL).CreateAnalysis(context.Background(), "tok123", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "file", ve.Field)
	assert.Zero(t, calls)
}

func TestCreateAnalysis_UploadsMultipart(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	path := testutil.SampleFile(t)

	err := NewClient(fake.URL()).CreateAnalysis(context.Background(), "tok123", path)
	require.NoError(t, err)

	uploads := fake.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "sample.tsv", uploads[0].FileName)
	assert.Equal(t, "tok123", uploads[0].Token)
	assert.True(t, strings.HasPrefix(uploads[0].Content, "chrom\t"))
}

func TestCreateAnalysis_Rejected(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	fake.FailUpload(http.StatusBadRequest)

	err := NewClient(fake.URL()).CreateAnalysis(context.Background(), "tok123", testutil.SampleFile(t))
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
}

func TestCreateAnalysis_WrongTokenIsUploadError(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")

	err := NewClient(fake.URL()).CreateAnalysis(context.Background(), "stale", testutil.SampleFile(t))
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
}

func TestListAnalyses_PreservesServerOrder(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	fake.SetJobs(testutil.MixedJobs()...)

	jobs, err := NewClient(fake.URL()).ListAnalyses(context.Background(), "tok123")
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	ids := []string{jobs[0].ID, jobs[1].ID, jobs[2].ID, jobs[3].ID}
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids)
	assert.Equal(t, StatusComplete, jobs[0].Status)
	assert.Equal(t, Status("queued"), jobs[3].Status)
}

func TestListAnalyses_EmptyIsNotNil(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")

	jobs, err := NewClient(fake.URL()).ListAnalyses(context.Background(), "tok123")
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestListAnalyses_Failure(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	fake.FailList(http.StatusServiceUnavailable)

	_, err := NewClient(fake.URL()).ListAnalyses(context.Background(), "tok123")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
}

func TestDeleteAnalysis(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	c := NewClient(fake.URL())

	require.NoError(t, c.DeleteAnalysis(context.Background(), "tok123", "42"))
	assert.Equal(t, []string{"42"}, fake.Deleted())

	fake.FailDelete(http.StatusNotFound)
	err := c.DeleteAnalysis(context.Background(), "tok123", "43")
	var de *DeleteError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "43", de.JobID)
	assert.Equal(t, http.StatusNotFound, de.Status)
}

func TestDeleteAnalysis_EmptyID(t *testing.T) {
	err := NewClient("http://127.0.0.1:1").DeleteAnalysis(context.Background(), "tok", " ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestTimeoutIsReported(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	fake.Block()

	c := NewClient(fake.URL(), WithTimeout(50*time.Millisecond))
	_, err := c.ListAnalyses(context.Background(), "tok123")

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout, got %v", err)
}

func TestRequestsAreLogged(t *testing.T) {
	fake := testutil.NewFakeAPI(t, "u", "p", "tok123")
	logger, err := log.NewLogger(t.TempDir())
	require.NoError(t, err)

	c := NewClient(fake.URL(), WithLogger(logger))
	_, _ = c.Login(context.Background(), "u", "p")
	_, _ = c.Login(context.Background(), "u", "nope")
	_, _ = c.ListAnalyses(context.Background(), "tok123")

	events, err := logger.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, log.EventLoginSucceeded, events[0].Event)
	assert.Equal(t, log.EventLoginFailed, events[1].Event)
	assert.Equal(t, http.StatusUnauthorized, events[1].Status)
	assert.Equal(t, log.EventRosterFetched, events[2].Event)
	assert.NotEmpty(t, events[2].RequestID)
}
