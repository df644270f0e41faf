package mockserver

import (
	"testing"
	"time"

	"github.com/2beens/chizen/internal/chizen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNewStore_SeedsAdmin(t *testing.T) {
	s := NewStore(testNow)
	admin, err := s.User(SeedAdminID)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin@chizen.app", admin.Email)
	assert.Equal(t, 1250, admin.TotalXP)
	assert.Equal(t, 1, s.UserCount())

	first, ok := s.FirstUser()
	require.True(t, ok)
	assert.Equal(t, SeedAdminID, first.ID)
}

func TestStore_RegisterAndAccount(t *testing.T) {
	s := NewStore(testNow)
	u := newUser("user-1", "Jane@Example.com", "", "", testNow)
	require.NoError(t, s.Register(u, "hash"))
	assert.ErrorIs(t, s.Register(newUser("user-2", "jane@example.com", "", "", testNow), "other"), ErrUserExists)

	got, hash, ok := s.Account("jane@example.com")
	require.True(t, ok)
	assert.Equal(t, "hash", hash)
	assert.Equal(t, "Jane", got.Username)
	assert.Equal(t, chizen.FitnessBeginner, got.FitnessLevel)

	_, _, ok = s.Account("nobody@example.com")
	assert.False(t, ok)

	// email change moves the account
	newEmail := "jane2@example.com"
	_, err := s.UpdateUser(u.ID, chizen.UserUpdate{Email: &newEmail})
	require.NoError(t, err)
	_, _, ok = s.Account("jane@example.com")
	assert.False(t, ok)
	_, _, ok = s.Account(newEmail)
	assert.True(t, ok)

	require.NoError(t, s.DeleteUser(u.ID))
	_, _, ok = s.Account(newEmail)
	assert.False(t, ok)
}

func TestStore_UsersPagination(t *testing.T) {
	s := NewStore(testNow)
	for i := 0; i < 4; i++ {
		s.AddUser(chizen.User{ID: string(rune('a' + i))})
	}

	users, total := s.Users(1, 2)
	assert.Equal(t, 5, total)
	require.Len(t, users, 2)
	assert.Equal(t, SeedAdminID, users[0].ID)
	assert.Equal(t, "a", users[1].ID)

	users, _ = s.Users(3, 2)
	require.Len(t, users, 1)
	assert.Equal(t, "d", users[0].ID)

	users, _ = s.Users(4, 2)
	assert.Empty(t, users)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := NewStore(testNow)

	username := "Renamed"
	xp := 10
	u, err := s.UpdateUser(SeedAdminID, chizen.UserUpdate{Username: &username, TotalXP: &xp})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Username)
	assert.Equal(t, 10, u.TotalXP)
	assert.Equal(t, "admin@chizen.app", u.Email)

	_, err = s.UpdateUser("xyz", chizen.UserUpdate{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, s.DeleteUser("xyz"), ErrUserNotFound)
	require.NoError(t, s.DeleteUser(SeedAdminID))
	assert.Equal(t, 0, s.UserCount())
	_, ok := s.FirstUser()
	assert.False(t, ok)
}

func TestStore_LeaderboardAndXP(t *testing.T) {
	s := NewStore(testNow)
	s.AddUser(chizen.User{ID: "u1", Username: "low", TotalXP: 10})
	s.AddUser(chizen.User{ID: "u2", Username: "high", TotalXP: 5000})

	s.AddXP("u1", 90, 4, testNow)
	u1, err := s.User("u1")
	require.NoError(t, err)
	assert.Equal(t, 100, u1.TotalXP)
	assert.Equal(t, 4, u1.StreakData.Current)
	assert.Equal(t, 4, u1.StreakData.Longest)
	require.NotNil(t, u1.StreakData.LastCompleted)

	board := s.Leaderboard(2)
	require.Len(t, board, 2)
	assert.Equal(t, chizen.LeaderboardEntry{Username: "high", TotalXP: 5000, Rank: 1}, board[0])
	assert.Equal(t, "ChiZen Admin", board[1].Username)
	assert.Equal(t, 2, board[1].Rank)
}

func TestStore_RoutinesNewestFirst(t *testing.T) {
	s := NewStore(testNow)
	for _, id := range []string{"r1", "r2", "r3"} {
		s.AddRoutine(chizen.Routine{RoutineID: id})
	}

	routines, total := s.Routines(1, 2)
	assert.Equal(t, 3, total)
	require.Len(t, routines, 2)
	assert.Equal(t, "r3", routines[0].RoutineID)
	assert.Equal(t, "r2", routines[1].RoutineID)

	routines, _ = s.Routines(2, 2)
	require.Len(t, routines, 1)
	assert.Equal(t, "r1", routines[0].RoutineID)
}

func TestStore_Newsletter(t *testing.T) {
	s := NewStore(testNow)
	assert.True(t, s.Subscribe("a@b.c"))
	assert.False(t, s.Subscribe("A@b.c"))
	assert.True(t, s.Unsubscribe("a@b.c"))
	assert.False(t, s.Unsubscribe("a@b.c"))
}
