// Package messages centralizes user-facing notification text.
package messages

import "fmt"

const (
	newPostSubject = "Hello my friend!"
	newPostBody    = "User %d has added a new post № %d"
)

// NewPost returns the subject and body of the mail sent to each follower
// when a user publishes a new post.
func NewPost(actorID, postID int64) (string, string) {
	return newPostSubject, fmt.Sprintf(newPostBody, actorID, postID)
}
