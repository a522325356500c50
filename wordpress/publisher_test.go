package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWordPress records the calls it receives and answers with canned responses.
type fakeWordPress struct {
	mu  sync.Mutex
	rec fakeRecord

	mediaStatus int
	mediaReply  string
	postStatus  int
	postReply   string
	delay       time.Duration
}

type fakeRecord struct {
	calls     []string
	postBody  map[string]any
	mediaName string
	mediaType string
	auth      string
}

func (f *fakeWordPress) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/media", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rec.calls = append(f.rec.calls, "media")
		f.rec.auth = r.Header.Get("Authorization")
		f.mu.Unlock()

		file, header, err := r.FormFile("file")
		if err == nil {
			_, _ = io.ReadAll(file)
			f.mu.Lock()
			f.rec.mediaName = header.Filename
			f.rec.mediaType = header.Header.Get("Content-Type")
			f.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(orDefault(f.mediaStatus, http.StatusCreated))
		_, _ = io.WriteString(w, orDefaultBody(f.mediaReply, `{"id":77}`))
	})
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rec.calls = append(f.rec.calls, "posts")
		f.rec.auth = r.Header.Get("Authorization")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.rec.postBody = body
		f.mu.Unlock()

		if f.delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(f.delay):
			}
		}
		w.WriteHeader(orDefault(f.postStatus, http.StatusCreated))
		_, _ = io.WriteString(w, orDefaultBody(f.postReply, `{"id":101,"link":"https://blog.example/hello","status":"draft"}`))
	})
	return mux
}

func (f *fakeWordPress) recorded() fakeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.rec
	rec.calls = append([]string(nil), f.rec.calls...)
	return rec
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultBody(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func newTestPublisher(t *testing.T, fake *fakeWordPress, opts Options) (*Publisher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewPublisher(NewClient(server.Client(), opts)), server
}

func TestPublishDefaultsToDraft(t *testing.T) {
	fake := &fakeWordPress{}
	publisher, server := newTestPublisher(t, fake, Options{})

	site := Site{Name: "demo", BaseURL: server.URL + "/", Credentials: Credentials{User: "u", Password: "p"}}
	result, err := publisher.Publish(context.Background(), site, PublishRequest{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	rec := fake.recorded()
	assert.Equal(t, int64(101), result.ID)
	assert.Equal(t, "https://blog.example/hello", result.Link)
	assert.Equal(t, []string{"posts"}, rec.calls)
	assert.Equal(t, "draft", rec.postBody["status"])
	assert.NotContains(t, rec.postBody, "featured_media")
	assert.Equal(t, Credentials{User: "u", Password: "p"}.Header(), rec.auth)
}

func TestPublishUploadsMediaBeforePost(t *testing.T) {
	fake := &fakeWordPress{}
	publisher, server := newTestPublisher(t, fake, Options{})

	req := PublishRequest{
		Title:      "With image",
		Content:    "Body",
		Status:     StatusPendingReview,
		Categories: []string{"3"},
		Tags:       []string{"go"},
		Attachment: &Attachment{Filename: "cover.png", ContentType: "image/png", Data: []byte("\x89PNG fake")},
	}
	result, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, req)
	require.NoError(t, err)

	rec := fake.recorded()
	assert.Equal(t, []string{"media", "posts"}, rec.calls)
	assert.Equal(t, float64(77), rec.postBody["featured_media"])
	assert.Equal(t, "pending", rec.postBody["status"])
	assert.Equal(t, []any{"3"}, rec.postBody["categories"])
	assert.Equal(t, []any{"go"}, rec.postBody["tags"])
	assert.Equal(t, "cover.png", rec.mediaName)
	assert.Equal(t, "image/png", rec.mediaType)
	assert.Equal(t, "draft", result.Status, "status echoed from the remote response")
	assert.Empty(t, rec.auth, "no credentials resolve, so no Authorization header")
}

func TestPublishMediaFailureAbortsBeforePost(t *testing.T) {
	fake := &fakeWordPress{mediaStatus: http.StatusRequestEntityTooLarge, mediaReply: `{"code":"rest_upload_file_too_big","message":"File too big"}`}
	publisher, server := newTestPublisher(t, fake, Options{})

	req := PublishRequest{Title: "t", Content: "c", Attachment: &Attachment{Filename: "big.jpg", Data: []byte("jpeg")}}
	_, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMediaUpload))
	var wpErr *Error
	require.True(t, errors.As(err, &wpErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, wpErr.Status)
	assert.Equal(t, "rest_upload_file_too_big", wpErr.Code)
	assert.Equal(t, StageUploading, wpErr.Stage)
	assert.Equal(t, []string{"media"}, fake.recorded().calls)
}

func TestPublishRejectedPostDetails(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		wantDetails string
	}{
		{
			name:        "structured error body",
			body:        "{\n  \"code\": \"rest_cannot_create\",\n  \"message\": \"Sorry, you are not allowed\"\n}",
			wantDetails: `{"code":"rest_cannot_create","message":"Sorry, you are not allowed"}`,
		},
		{
			name:        "plain text body",
			body:        "Bad Gateway from upstream",
			wantDetails: "Bad Gateway from upstream",
		},
		{
			name:        "empty body",
			body:        " ",
			wantDetails: NoDetail,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fake := &fakeWordPress{postStatus: http.StatusForbidden, postReply: testCase.body}
			publisher, server := newTestPublisher(t, fake, Options{})

			_, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, PublishRequest{Title: "t", Content: "c"})
			var wpErr *Error
			if !errors.As(err, &wpErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if wpErr.Kind != KindRemoteRejection {
				t.Fatalf("expected remote rejection, got %s", wpErr.Kind)
			}
			if wpErr.Status != http.StatusForbidden {
				t.Fatalf("expected status 403, got %d", wpErr.Status)
			}
			if wpErr.Details != testCase.wantDetails {
				t.Fatalf("expected details %q, got %q", testCase.wantDetails, wpErr.Details)
			}
			if wpErr.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestPublishLinkFallsBackToGUID(t *testing.T) {
	fake := &fakeWordPress{postReply: `{"id":5,"guid":{"rendered":"https://blog.example/?p=5"}}`}
	publisher, server := newTestPublisher(t, fake, Options{})

	result, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, PublishRequest{Title: "t", Content: "c", Status: StatusPublish})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example/?p=5", result.Link)
	assert.Equal(t, "publish", result.Status)
}

func TestPublishEnvironmentMismatchMakesNoCalls(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), Options{Production: true})
	site := Site{BaseURL: "http://localhost:8080"}

	_, err := NewPublisher(client).Publish(context.Background(), site, PublishRequest{Title: "t", Content: "c"})
	assert.True(t, errors.Is(err, ErrEnvironmentMismatch), "publish: %v", err)

	_, err = NewProber(client).Probe(context.Background(), site)
	assert.True(t, errors.Is(err, ErrEnvironmentMismatch), "probe: %v", err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestPublishTimeoutIsNetworkError(t *testing.T) {
	fake := &fakeWordPress{delay: 2 * time.Second}
	publisher, server := newTestPublisher(t, fake, Options{RequestTimeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, PublishRequest{Title: "t", Content: "c"})
	require.Error(t, err)

	var wpErr *Error
	require.True(t, errors.As(err, &wpErr))
	assert.Equal(t, KindNetwork, wpErr.Kind)
	assert.True(t, wpErr.Timeout)
	assert.Equal(t, StagePosting, wpErr.Stage)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPublishInvalidRequestMakesNoCalls(t *testing.T) {
	fake := &fakeWordPress{}
	publisher, server := newTestPublisher(t, fake, Options{})

	_, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, PublishRequest{Content: "c"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Empty(t, fake.recorded().calls)

	_, err = publisher.Publish(context.Background(), Site{}, PublishRequest{Title: "t", Content: "c"})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestPublishFailureReportsStoppingStage(t *testing.T) {
	fake := &fakeWordPress{}
	publisher, server := newTestPublisher(t, fake, Options{})

	_, err := publisher.Publish(context.Background(), Site{BaseURL: server.URL}, PublishRequest{Content: "no title"})
	var wpErr *Error
	require.True(t, errors.As(err, &wpErr))
	assert.Equal(t, KindInvalidRequest, wpErr.Kind)
	assert.Equal(t, StageIdle, wpErr.Stage)
	assert.Empty(t, fake.recorded().calls)
}
