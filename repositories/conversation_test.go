package repositories

import (
	"testing"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func Test_Find_Checks_Both_Orderings(t *testing.T) {
	req := require.New(t)
	repository, err := NewConversationRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	// Given a conversation created as (1, 2)
	created, err := repository.CreateConversation(1, 2)
	req.NoError(err)
	req.Positive(created.ID)

	// When looking it up in either ordering
	found, err := repository.FindConversation(1, 2)
	req.NoError(err)
	req.Equal(created.ID, found.ID)

	reversed, err := repository.FindConversation(2, 1)
	req.NoError(err)

	// Then both orderings resolve to the same conversation
	req.Equal(created.ID, reversed.ID)
}

func Test_Find_Absent_Pair(t *testing.T) {
	req := require.New(t)
	repository, err := NewConversationRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	_, err = repository.FindConversation(5, 6)
	req.ErrorIs(err, errors.ErrConversationNotFound)
}

func Test_Create_Rejects_Same_Participant(t *testing.T) {
	req := require.New(t)
	repository, err := NewConversationRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	_, err = repository.CreateConversation(3, 3)
	req.ErrorIs(err, errors.ErrSameParticipant)
}

func Test_ConversationsForUser(t *testing.T) {
	req := require.New(t)
	repository, err := NewConversationRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	// Given conversations (1,2), (2,3) and (3,4)
	_, err = repository.CreateConversation(1, 2)
	req.NoError(err)
	_, err = repository.CreateConversation(2, 3)
	req.NoError(err)
	_, err = repository.CreateConversation(3, 4)
	req.NoError(err)

	// When listing user 2's conversations
	conversations, err := repository.ConversationsForUser(2)
	req.NoError(err)

	// Then only the two involving user 2 come back
	req.Len(conversations, 2)
	for _, c := range conversations {
		req.True(c.Includes(2))
	}

	// And a stranger has none
	none, err := repository.ConversationsForUser(99)
	req.NoError(err)
	req.Empty(none)
}

func Test_GetConversation_By_ID(t *testing.T) {
	req := require.New(t)
	repository, err := NewConversationRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	created, err := repository.CreateConversation(10, 20)
	req.NoError(err)

	found, err := repository.GetConversation(created.ID)
	req.NoError(err)
	req.Equal(created.UserA, found.UserA)
	req.Equal(created.UserB, found.UserB)

	_, err = repository.GetConversation(12345)
	req.ErrorIs(err, errors.ErrConversationNotFound)
}
