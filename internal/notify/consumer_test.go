package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/postline/postline/internal/domain"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	if m.failFor[to] {
		return errors.New("smtp unreachable")
	}
	return nil
}

func newTestConsumer(mailer Mailer) *Consumer {
	return &Consumer{mailer: mailer, sendTimeout: time.Second}
}

func TestDispatch_OneSendPerRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	ev := domain.NotificationEvent{
		EventID:         "ev-1",
		ActorID:         1,
		SubjectID:       42,
		RecipientEmails: []string{"bob@mail.com", "carol@mail.com"},
	}

	failed := c.dispatch(context.Background(), ev)
	if len(failed) != 0 {
		t.Fatalf("expected no failures, got %v", failed)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(mailer.sent))
	}

	if mailer.sent[0].to != "bob@mail.com" || mailer.sent[1].to != "carol@mail.com" {
		t.Fatalf("unexpected recipients: %+v", mailer.sent)
	}
	for _, m := range mailer.sent {
		if m.subject != "Hello my friend!" {
			t.Fatalf("unexpected subject: %q", m.subject)
		}
		if !strings.Contains(m.body, "User 1 has added a new post № 42") {
			t.Fatalf("unexpected body: %q", m.body)
		}
	}
}

func TestDispatch_EmptyRecipientListSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	failed := c.dispatch(context.Background(), domain.NotificationEvent{EventID: "ev-2", ActorID: 3, SubjectID: 9})
	if len(failed) != 0 || len(mailer.sent) != 0 {
		t.Fatalf("expected no sends for empty recipient list, got sent=%d failed=%d", len(mailer.sent), len(failed))
	}
}

func TestDispatch_AttemptsAllRecipientsDespiteFailures(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]bool{"bob@mail.com": true}}
	c := newTestConsumer(mailer)

	ev := domain.NotificationEvent{
		EventID:         "ev-3",
		ActorID:         1,
		SubjectID:       42,
		RecipientEmails: []string{"bob@mail.com", "carol@mail.com"},
	}

	failed := c.dispatch(context.Background(), ev)
	if len(mailer.sent) != 2 {
		t.Fatalf("a failing recipient must not stop the fan-out, got %d sends", len(mailer.sent))
	}
	if len(failed) != 1 || failed[0] != "bob@mail.com" {
		t.Fatalf("expected bob to be reported failed, got %v", failed)
	}
}
