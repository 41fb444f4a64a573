package domain

// NotificationEvent is the fan-out event emitted once per created post.
// It is immutable after construction and carries everything the consumer
// needs to dispatch one mail per recipient without further lookups.
type NotificationEvent struct {
	EventID         string   `json:"event_id"`
	ActorID         int64    `json:"actor_id"`
	SubjectID       int64    `json:"subject_id"`
	RecipientEmails []string `json:"recipient_emails"`
}
