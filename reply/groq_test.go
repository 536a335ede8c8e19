package reply

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AMCarbonaro/snapbot/config"
)

func groqServer(t *testing.T, handler http.HandlerFunc) (*GroqClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewGroqClient(&config.GenerationConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "llama-3.1-8b-instant",
		MaxTokens:   50,
		Temperature: 0.4,
	})
	return client, srv
}

func TestGroqGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest
	client, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"sounds good"}}]}`))
	})

	out, err := client.Generate(context.Background(), "system things", "user things")
	if err != nil {
		t.Fatal(err)
	}
	if out != "sounds good" {
		t.Fatalf("unexpected completion: %q", out)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotBody.Model != "llama-3.1-8b-instant" || gotBody.MaxTokens != 50 {
		t.Fatalf("unexpected request payload: %+v", gotBody)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected message roles: %+v", gotBody.Messages)
	}
}

func TestGroqGenerateAPIError(t *testing.T) {
	client, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached","type":"tokens"}}`))
	})

	_, err := client.Generate(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "rate limit reached") {
		t.Fatalf("expected the api error message, got %v", err)
	}
}

func TestGroqGenerateNonJSONFailure(t *testing.T) {
	client, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream error</html>"))
	})

	_, err := client.Generate(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected the status in the error, got %v", err)
	}
}

func TestGroqGenerateNoChoices(t *testing.T) {
	client, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected a no-choices error, got %v", err)
	}
}

func TestGroqGenerateMissingKey(t *testing.T) {
	client := NewGroqClient(&config.GenerationConfig{BaseURL: "http://unused"})
	if _, err := client.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
