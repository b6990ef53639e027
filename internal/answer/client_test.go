package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func Test_Client_Ask(t *testing.T) {
	t.Run("it should post the query as json and return the answer", func(t *testing.T) {
		var gotMethod, gotContentType string
		var gotBody request
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"answer": "Son."}`))
		}))
		t.Cleanup(testServer.Close)

		c := New(testServer.URL, time.Second)
		got, err := c.Ask(context.Background(), "What is Luke Skywalker's relationship to Darth Vader?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testboil.FailTestIfDiff(t, got, "Son.")
		testboil.FailTestIfDiff(t, gotMethod, http.MethodPost)
		testboil.FailTestIfDiff(t, gotContentType, "application/json")
		testboil.FailTestIfDiff(t, gotBody.Query, "What is Luke Skywalker's relationship to Darth Vader?")
	})

	t.Run("it should synthesize message from status code on empty 500", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(testServer.Close)

		_, err := New(testServer.URL, time.Second).Ask(context.Background(), "q")
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected TransportError, got: %T %v", err, err)
		}
		testboil.FailTestIfDiff(t, transportErr.StatusCode, 500)
		testboil.AssertStringContains(t, Message(err), "500")
	})

	t.Run("it should return unexpected error when service is unreachable", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := testServer.URL
		testServer.Close()

		_, err := New(url, time.Second).Ask(context.Background(), "q")
		var unexpectedErr *UnexpectedError
		if !errors.As(err, &unexpectedErr) {
			t.Fatalf("expected UnexpectedError, got: %T %v", err, err)
		}
		testboil.FailTestIfDiff(t, Message(err), UnexpectedMessage)
	})
}

func Test_handleResponse(t *testing.T) {
	testCases := []struct {
		desc        string
		status      int
		contentType string
		body        string
		wantAnswer  string
		wantMessage string
		wantDetail  string
	}{
		{
			desc:       "success",
			status:     200,
			body:       `{"answer": "He is his son."}`,
			wantAnswer: "He is his son.",
		},
		{
			desc:       "empty answer is still an answer",
			status:     200,
			body:       `{"answer": ""}`,
			wantAnswer: "",
		},
		{
			desc:        "explicit error on success status",
			status:      200,
			body:        `{"error": "No relevant content found"}`,
			wantMessage: "No relevant content found",
		},
		{
			desc:        "explicit error wins over status code",
			status:      400,
			body:        `{"error": "Query is required"}`,
			wantMessage: "Query is required",
		},
		{
			desc:        "non-success without error field",
			status:      503,
			body:        `{"status": "down"}`,
			wantMessage: "HTTP error! status: 503",
			wantDetail:  `{"status": "down"}`,
		},
		{
			desc:        "html error page",
			status:      502,
			contentType: "text/html",
			body:        `<html><head><title>502 Bad Gateway</title></head><body><center><h1>502 Bad Gateway</h1></center><hr><center>nginx</center></body></html>`,
			wantMessage: "HTTP error! status: 502",
			wantDetail:  "502 Bad Gateway\nnginx",
		},
		{
			desc:        "malformed json",
			status:      200,
			body:        `{"answer": `,
			wantMessage: UnexpectedMessage,
		},
		{
			desc:        "missing answer field",
			status:      200,
			body:        `{}`,
			wantMessage: UnexpectedMessage,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, err := handleResponse(tC.status, tC.contentType, []byte(tC.body))
			if tC.wantMessage == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testboil.FailTestIfDiff(t, got, tC.wantAnswer)
				return
			}
			if err == nil {
				t.Fatalf("expected error, got answer: %q", got)
			}
			testboil.FailTestIfDiff(t, Message(err), tC.wantMessage)
			if tC.wantDetail != "" {
				testboil.FailTestIfDiff(t, Detail(err), tC.wantDetail)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	testCases := []struct {
		desc  string
		given error
		want  string
	}{
		{desc: "application error", given: &ApplicationError{Msg: "nope"}, want: "nope"},
		{desc: "transport error", given: &TransportError{StatusCode: 404}, want: "HTTP error! status: 404"},
		{desc: "wrapped transport error", given: errors.Join(errors.New("ctx"), &TransportError{StatusCode: 418}), want: "HTTP error! status: 418"},
		{desc: "unexpected error", given: &UnexpectedError{Cause: errors.New("boom")}, want: UnexpectedMessage},
		{desc: "foreign error", given: errors.New("anything"), want: UnexpectedMessage},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			testboil.FailTestIfDiff(t, Message(tC.given), tC.want)
		})
	}
}

func TestUnexpectedErrorUnwrap(t *testing.T) {
	err := &UnexpectedError{Cause: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}
