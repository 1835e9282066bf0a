package errors

import "fmt"

var (
	ErrMalformedFrame       = fmt.Errorf("malformed frame")
	ErrUnknownFrameType     = fmt.Errorf("unknown frame type")
	ErrAuthRequired         = fmt.Errorf("first frame must be auth")
	ErrInvalidUserID        = fmt.Errorf("user id must be positive")
	ErrUserNotFound         = fmt.Errorf("user does not exist")
	ErrSpoofedSender        = fmt.Errorf("sender does not match session user")
	ErrInvalidReceiver      = fmt.Errorf("receiver id must be positive")
	ErrBlankContent         = fmt.Errorf("content is empty or whitespace only")
	ErrInvalidMessageID     = fmt.Errorf("message id must be positive")
	ErrMessageNotFound      = fmt.Errorf("message not found")
	ErrNotMessageAuthor     = fmt.Errorf("message belongs to another user")
	ErrNotMessageRecipient  = fmt.Errorf("only the recipient may acknowledge a read")
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrSameParticipant      = fmt.Errorf("a conversation needs two distinct users")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
)
