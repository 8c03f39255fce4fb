//go:build small_tests || all_tests

package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbland/subrelay/types"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

// capturedRequest is what a stubServer saw of the most recent request.
type capturedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    map[string]any
}

type stubServer struct {
	*httptest.Server
	NumCalls   int
	Request    capturedRequest
	StatusCode int
	Body       string
	Delay      time.Duration
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	stub := &stubServer{StatusCode: status, Body: body}
	stub.Server = httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stub.NumCalls++
			data, _ := io.ReadAll(r.Body)
			stub.Request = capturedRequest{
				Method: r.Method, Path: r.URL.Path, Headers: r.Header.Clone(),
			}
			_ = json.Unmarshal(data, &stub.Request.Body)

			if stub.Delay != 0 {
				time.Sleep(stub.Delay)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stub.StatusCode)
			_, _ = w.Write([]byte(stub.Body))
		}),
	)
	t.Cleanup(stub.Close)
	return stub
}

var testCreds = &Credentials{ApiKey: "test-api-key", ListId: "1234567"}

var testRequest = &types.SubscriptionRequest{Email: "a@b.com", Name: "A"}

func TestCredentialsMissing(t *testing.T) {
	t.Run("NoneMissing", func(t *testing.T) {
		assert.Assert(t, is.Len(testCreds.Missing(), 0))
	})

	t.Run("AllMissing", func(t *testing.T) {
		creds := &Credentials{}

		assert.DeepEqual(t, []string{"api key", "list id"}, creds.Missing())
	})
}

func TestParseKind(t *testing.T) {
	t.Run("DefaultsToKit", func(t *testing.T) {
		kind, err := ParseKind("")

		assert.NilError(t, err)
		assert.Equal(t, Kit, kind)
	})

	t.Run("IgnoresCaseAndSpace", func(t *testing.T) {
		kind, err := ParseKind(" SendGrid ")

		assert.NilError(t, err)
		assert.Equal(t, SendGrid, kind)
	})

	t.Run("FailsOnUnknownProvider", func(t *testing.T) {
		_, err := ParseKind("mailchimp")

		assert.Error(t, err, `unknown provider: "mailchimp"`)
	})
}

func TestNew(t *testing.T) {
	client := NewClient(time.Second)

	t.Run("KitWithDefaultBaseUrl", func(t *testing.T) {
		p, err := New(Kit, "", client)

		assert.NilError(t, err)
		assert.DeepEqual(
			t, &KitProvider{Client: client, BaseUrl: KitDefaultBaseUrl}, p,
		)
	})

	t.Run("SendGridTrimsTrailingSlash", func(t *testing.T) {
		p, err := New(SendGrid, "http://localhost:8080/", client)

		assert.NilError(t, err)
		expected := &SendGridProvider{
			Client: client, BaseUrl: "http://localhost:8080",
		}
		assert.DeepEqual(t, expected, p)
	})

	t.Run("FailsOnUnknownKind", func(t *testing.T) {
		p, err := New(Kind("bogus"), "", client)

		assert.Assert(t, is.Nil(p))
		assert.Error(t, err, `unknown provider: "bogus"`)
	})
}

func TestResponseOK(t *testing.T) {
	assert.Assert(t, (&Response{StatusCode: http.StatusOK}).OK())
	assert.Assert(t, (&Response{StatusCode: http.StatusAccepted}).OK())
	assert.Assert(t, !(&Response{StatusCode: http.StatusFound}).OK())
	assert.Assert(t, !(&Response{StatusCode: http.StatusBadRequest}).OK())
}

func TestKitSubscribe(t *testing.T) {
	setup := func(t *testing.T, status int, body string) (
		*stubServer, *KitProvider,
	) {
		stub := newStubServer(t, status, body)
		return stub, &KitProvider{Client: NewClient(time.Second), BaseUrl: stub.URL}
	}

	t.Run("SendsExpectedPayload", func(t *testing.T) {
		stub, p := setup(t, http.StatusOK, `{"subscription":{"id":1}}`)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Assert(t, res.OK())
		assert.Equal(t, "", res.Message)
		assert.Equal(t, 1, stub.NumCalls)
		assert.Equal(t, http.MethodPost, stub.Request.Method)
		assert.Equal(t, "/v3/forms/1234567/subscribe", stub.Request.Path)
		assert.Equal(
			t, "application/json", stub.Request.Headers.Get("Content-Type"),
		)
		expected := map[string]any{
			"api_key": "test-api-key", "email": "a@b.com", "first_name": "A",
		}
		assert.DeepEqual(t, expected, stub.Request.Body)
	})

	t.Run("OmitsEmptyFirstName", func(t *testing.T) {
		stub, p := setup(t, http.StatusOK, `{}`)
		req := &types.SubscriptionRequest{Email: "a@b.com"}

		_, err := p.Subscribe(context.Background(), testCreds, req)

		assert.NilError(t, err)
		expected := map[string]any{"api_key": "test-api-key", "email": "a@b.com"}
		assert.DeepEqual(t, expected, stub.Request.Body)
	})

	t.Run("ParsesErrorMessage", func(t *testing.T) {
		_, p := setup(
			t, http.StatusUnprocessableEntity, `{"message":"Already subscribed"}`,
		)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
		assert.Equal(t, "Already subscribed", res.Message)
		assert.Equal(t, `{"message":"Already subscribed"}`, res.Body)
	})

	t.Run("EmptyMessageIfBodyIsNotJson", func(t *testing.T) {
		_, p := setup(t, http.StatusInternalServerError, "<html>oops</html>")

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, "", res.Message)
	})

	t.Run("EscapesFormId", func(t *testing.T) {
		p := &KitProvider{BaseUrl: KitDefaultBaseUrl}

		assert.Equal(
			t,
			KitDefaultBaseUrl+"/v3/forms/a%2Fb/subscribe",
			p.SubscribeUrl("a/b"),
		)
	})

	t.Run("FailsIfRequestTimesOut", func(t *testing.T) {
		stub, p := setup(t, http.StatusOK, `{}`)
		stub.Delay = 100 * time.Millisecond
		p.Client = NewClient(10 * time.Millisecond)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.Assert(t, is.Nil(res))
		assert.ErrorContains(t, err, "POST "+stub.URL+"/v3/forms/")
	})
}

func TestSendGridSubscribe(t *testing.T) {
	setup := func(t *testing.T, status int, body string) (
		*stubServer, *SendGridProvider,
	) {
		stub := newStubServer(t, status, body)
		p := &SendGridProvider{Client: NewClient(time.Second), BaseUrl: stub.URL}
		return stub, p
	}

	t.Run("SendsExpectedPayload", func(t *testing.T) {
		stub, p := setup(t, http.StatusAccepted, `{"job_id":"deadbeef"}`)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Assert(t, res.OK())
		assert.Equal(t, http.MethodPut, stub.Request.Method)
		assert.Equal(t, sendGridContactsEndpoint, stub.Request.Path)
		assert.Equal(
			t, "Bearer test-api-key", stub.Request.Headers.Get("Authorization"),
		)
		expected := map[string]any{
			"list_ids": []any{"1234567"},
			"contacts": []any{
				map[string]any{"email": "a@b.com", "first_name": "A"},
			},
		}
		assert.DeepEqual(t, expected, stub.Request.Body)
	})

	t.Run("ParsesFirstErrorMessage", func(t *testing.T) {
		const body = `{"errors":[` +
			`{"field":"list_ids","message":"list not found"},` +
			`{"field":"email","message":"second problem"}]}`
		_, p := setup(t, http.StatusBadRequest, body)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "list not found", res.Message)
	})

	t.Run("EmptyMessageIfNoErrors", func(t *testing.T) {
		_, p := setup(t, http.StatusUnauthorized, `{"errors":[]}`)

		res, err := p.Subscribe(context.Background(), testCreds, testRequest)

		assert.NilError(t, err)
		assert.Equal(t, "", res.Message)
	})
}
