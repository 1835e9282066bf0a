package tcp

import (
	"bufio"
	goerrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/protocol"
	"chat-relay/services"

	"github.com/google/uuid"
)

// maxFrameSize bounds a single newline-delimited frame.
const maxFrameSize = 1 << 20

// rejection strings sent before closing an unauthenticated connection.
const (
	rejectInvalidAuth  = "Invalid auth format"
	rejectUnknownUser  = "User does not exist"
	rejectStoreFailure = "Temporary failure, try again"
)

// Session owns one transport connection and walks it through
// Unauthenticated -> Authenticated -> Closed. There is no re-authentication;
// cleanup runs exactly once whatever the exit path.
type Session struct {
	id       string
	conn     net.Conn
	log      *slog.Logger
	identity services.IIdentityService
	relay    services.IRelayService
	registry contract.IRegistry

	userID    int64 // bound after successful auth, 0 before
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func NewSession(
	log *slog.Logger,
	conn net.Conn,
	identity services.IIdentityService,
	relay services.IRelayService,
	registry contract.IRegistry,
) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		conn:     conn,
		log:      log.With("session_id", id, "remote", conn.RemoteAddr().String()),
		identity: identity,
		relay:    relay,
		registry: registry,
	}
}

// Push implements contract.Sink. It is called both by this session's own
// loop and by other sessions forwarding messages, so writes are serialized.
func (s *Session) Push(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.Write(payload)
	return err
}

// Run drives the session to completion. It returns when the transport
// closes, a fatal fault occurs, or the auth contract is violated.
func (s *Session) Run() {
	defer s.close()

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameSize)

	if !s.authenticate(scanner) {
		return
	}
	if !s.replayHistory() {
		return
	}
	s.serve(scanner)
}

// authenticate enforces the Unauthenticated state contract: exactly one
// well-formed auth frame naming an existing user, before anything else.
// Any failure sends a plain-text rejection and leaves the registry untouched.
func (s *Session) authenticate(scanner *bufio.Scanner) bool {
	if !scanner.Scan() {
		s.log.Info("Connection closed before auth")
		return false
	}

	frame, err := protocol.Decode(scanner.Bytes())
	if err != nil {
		s.reject(rejectInvalidAuth)
		return false
	}
	auth, ok := frame.(protocol.AuthFrame)
	if !ok {
		s.log.Warn("Rejecting connection", "error", errors.ErrAuthRequired)
		s.reject(rejectInvalidAuth)
		return false
	}
	if err = auth.Validate(); err != nil {
		s.reject(rejectInvalidAuth)
		return false
	}

	switch err = s.identity.Verify(auth.UserID); {
	case err == nil:
	case goerrors.Is(err, errors.ErrUserNotFound), goerrors.Is(err, errors.ErrInvalidUserID):
		s.log.Warn("Auth rejected", "user_id", auth.UserID, "error", err)
		s.reject(rejectUnknownUser)
		return false
	default:
		// Store failure during auth is fatal to the session.
		s.log.Error("Auth store failure", "user_id", auth.UserID, "error", err)
		s.reject(rejectStoreFailure)
		return false
	}

	s.userID = auth.UserID
	s.registry.Register(s.userID, s)
	s.log.Info("User authenticated", "user_id", s.userID)
	return true
}

// replayHistory pushes every stored message of the user's conversations in
// ascending send-time order. Replay never mutates read state; the client
// acknowledges reads explicitly.
func (s *Session) replayHistory() bool {
	messages, err := s.relay.History(s.userID)
	if err != nil {
		// Fatal: the client would otherwise believe it has an empty history.
		s.log.Error("History replay failed", "user_id", s.userID, "error", err)
		return false
	}
	for _, message := range messages {
		payload, err := protocol.Encode(protocol.NewMessageNotification(message))
		if err != nil {
			s.log.Error("History encode failed", "message_id", message.ID, "error", err)
			return false
		}
		if err = s.Push(payload); err != nil {
			s.log.Info("Client gone during replay", "user_id", s.userID, "error", err)
			return false
		}
	}
	s.log.Info("History replayed", "user_id", s.userID, "messages", len(messages))
	return true
}

// serve is the Authenticated state: one frame per line until the transport
// closes. A single malformed frame is logged and skipped, never fatal.
func (s *Session) serve(scanner *bufio.Scanner) {
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		frame, err := protocol.Decode(line)
		if err != nil {
			s.log.Warn("Skipping malformed frame", "user_id", s.userID, "error", err)
			continue
		}
		s.handle(frame)
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn("Read loop ended", "user_id", s.userID, "error", err)
	}
}

func (s *Session) handle(frame protocol.Frame) {
	switch f := frame.(type) {
	case protocol.AuthFrame:
		// Re-auth is an idempotent no-op, not an error.
		s.log.Warn("Duplicate auth ignored", "user_id", s.userID)

	case protocol.ChatFrame:
		message, err := s.relay.SendChat(s.userID, f)
		switch {
		case err == nil:
			s.log.Info("Message stored", "message_id", message.ID, "user_id", s.userID)
		case isValidationError(err):
			s.log.Warn("Invalid or spoofed chat frame dropped", "user_id", s.userID, "error", err)
		default:
			// Store failure affects this frame only; the session lives on.
			s.log.Error("Chat frame failed", "user_id", s.userID, "error", err)
		}

	case protocol.ReadAckFrame:
		if err := s.relay.AckRead(s.userID, f.MessageID); err != nil {
			s.log.Error("Read ack failed", "message_id", f.MessageID, "error", err)
		}

	case protocol.UpdateFrame:
		ack, err := s.relay.UpdateMessage(s.userID, f)
		switch {
		case isValidationError(err):
			s.log.Warn("Invalid update frame dropped", "user_id", s.userID, "error", err)
			return
		case err != nil:
			s.log.Error("Update frame failed", "user_id", s.userID, "error", err)
			return
		}
		s.pushAck(ack)
	}
}

func (s *Session) pushAck(ack protocol.UpdateAck) {
	payload, err := protocol.Encode(ack)
	if err != nil {
		s.log.Error("Ack encode failed", "message_id", ack.MessageID, "error", err)
		return
	}
	if err = s.Push(payload); err != nil {
		s.log.Info("Client gone while sending ack", "user_id", s.userID, "error", err)
	}
}

// isValidationError reports whether the frame was dropped by a relay
// validation rule rather than a store fault.
func isValidationError(err error) bool {
	return goerrors.Is(err, errors.ErrSpoofedSender) ||
		goerrors.Is(err, errors.ErrInvalidReceiver) ||
		goerrors.Is(err, errors.ErrBlankContent) ||
		goerrors.Is(err, errors.ErrInvalidMessageID)
}

func (s *Session) reject(text string) {
	if err := s.Push([]byte(fmt.Sprintf("%s\n", text))); err != nil {
		s.log.Info("Rejection not delivered", "error", err)
	}
}

// close releases the registry slot and the transport, exactly once.
// The sink comparison in Unregister protects a replacement session: a stale
// session closing late never evicts the binding that replaced it.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		if s.userID > 0 {
			s.registry.Unregister(s.userID, s)
		}
		_ = s.conn.Close()
		s.log.Info("Session closed", "user_id", s.userID)
	})
}
