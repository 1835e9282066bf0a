package e2e

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const readTimeout = 5 * time.Second

type testRelaySuite struct {
	BaseRelaySuite
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, &testRelaySuite{})
}

func (s *testRelaySuite) TestConversationFlow() {
	// Unique content so the scenario is repeatable against a durable store
	content := "ping " + uuid.NewString()
	edited := "edited " + uuid.NewString()

	sender := s.Connect(s.T(), "Sender session")
	s.Require().NoError(sender.Auth(s.Config.UserA))
	s.DrainHistory(sender)

	receiver := s.Connect(s.T(), "Receiver session")
	s.Require().NoError(receiver.Auth(s.Config.UserB))
	s.DrainHistory(receiver)

	var messageID int64

	s.Run("Step 1: live delivery to a connected receiver", func() {
		s.Require().NoError(sender.SendChat(s.Config.UserA, s.Config.UserB, content))

		notification, err := receiver.ReadNotification(readTimeout)
		s.Require().NoError(err)
		s.Require().Equal(s.Config.UserA, notification.From)
		s.Require().Equal(content, notification.Content)
		s.Require().False(notification.IsRead)
		messageID = notification.MessageID
	})

	s.Run("Step 2: receiver acknowledges the read", func() {
		s.Require().NoError(receiver.SendReadAck(messageID))
	})

	s.Run("Step 3: author edits, impostor cannot", func() {
		s.Require().NoError(sender.SendUpdate(messageID, edited))
		ack, err := sender.ReadUpdateAck(readTimeout)
		s.Require().NoError(err)
		s.Require().Equal("success", ack.Status)

		s.Require().NoError(receiver.SendUpdate(messageID, "hijacked"))
		ack, err = receiver.ReadUpdateAck(readTimeout)
		s.Require().NoError(err)
		s.Require().Equal("not_found_or_unauthorized", ack.Status)
	})

	s.Run("Step 4: replay returns the edited message as read", func() {
		late := s.Connect(s.T(), "Receiver replay session")
		s.Require().NoError(late.Auth(s.Config.UserB))

		found := false
		for {
			notification, err := late.ReadNotification(readTimeout)
			if err != nil {
				break
			}
			if notification.MessageID == messageID {
				s.Require().Equal(edited, notification.Content)
				s.Require().True(notification.IsRead)
				found = true
				break
			}
		}
		s.Require().True(found, "edited message missing from replay")
	})
}
