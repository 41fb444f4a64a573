package messages_test

import (
	"testing"

	"github.com/postline/postline/internal/messages"
)

func TestNewPost(t *testing.T) {
	subject, body := messages.NewPost(1, 42)
	if subject != "Hello my friend!" {
		t.Fatalf("unexpected subject: %q", subject)
	}
	if body != "User 1 has added a new post № 42" {
		t.Fatalf("unexpected body: %q", body)
	}
}
