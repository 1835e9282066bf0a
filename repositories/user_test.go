package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Created_User_Exists(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	alice, err := repository.CreateUser("alice")
	req.NoError(err)
	req.Positive(alice.ID)

	exists, err := repository.UserExists(alice.ID)
	req.NoError(err)
	req.True(exists)
}

func Test_Unknown_User_Does_Not_Exist(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	exists, err := repository.UserExists(404)
	req.NoError(err)
	req.False(exists)

	// Non-positive ids never exist, without touching storage
	exists, err = repository.UserExists(0)
	req.NoError(err)
	req.False(exists)

	exists, err = repository.UserExists(-1)
	req.NoError(err)
	req.False(exists)
}

func Test_User_IDs_Are_Distinct(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repository.Close()

	alice, err := repository.CreateUser("alice")
	req.NoError(err)
	bob, err := repository.CreateUser("bob")
	req.NoError(err)
	req.NotEqual(alice.ID, bob.ID)
}
