package mockserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/chizen/internal/chizen"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

const SeedAdminID = "admin-user-001"

type account struct {
	userID       string
	passwordHash string
}

// Store keeps the mock backend state in memory.
type Store struct {
	mu sync.RWMutex

	users      map[string]*chizen.User
	userOrder  []string
	accounts   map[string]account // lowercased email -> registered account
	routines   []chizen.Routine
	newsletter map[string]bool
}

func NewStore(now time.Time) *Store {
	s := &Store{
		users:      map[string]*chizen.User{},
		accounts:   map[string]account{},
		newsletter: map[string]bool{},
	}
	lastCompleted := now
	s.addLocked(&chizen.User{
		ID:           SeedAdminID,
		Email:        "admin@chizen.app",
		Username:     "ChiZen Admin",
		FitnessLevel: chizen.FitnessAdvanced,
		Preferences: chizen.Preferences{
			Duration:   20,
			FocusAreas: []string{"strength", "flexibility", "mindfulness"},
			Language:   "en",
		},
		StreakData: chizen.StreakData{
			Current:       7,
			Longest:       15,
			LastCompleted: &lastCompleted,
		},
		TotalXP:   1250,
		IsAdmin:   true,
		IsActive:  true,
		CreatedAt: now,
	})
	return s
}

func (s *Store) addLocked(u *chizen.User) {
	if _, ok := s.users[u.ID]; !ok {
		s.userOrder = append(s.userOrder, u.ID)
	}
	s.users[u.ID] = u
}

func (s *Store) AddUser(u chizen.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(&u)
}

// Register adds a user with a password hash; the email must be new among registered users.
func (s *Store) Register(u chizen.User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.accounts[email]; ok {
		return ErrUserExists
	}
	s.accounts[email] = account{userID: u.ID, passwordHash: passwordHash}
	s.addLocked(&u)
	return nil
}

// Account returns a registered user and its password hash.
func (s *Store) Account(email string) (chizen.User, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return chizen.User{}, "", false
	}
	u, ok := s.users[acc.userID]
	if !ok {
		return chizen.User{}, "", false
	}
	return *u, acc.passwordHash, true
}

func (s *Store) User(id string) (chizen.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return chizen.User{}, ErrUserNotFound
	}
	return *u, nil
}

// FirstUser is what an anonymous /api/auth/me gets.
func (s *Store) FirstUser() (chizen.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.userOrder) == 0 {
		return chizen.User{}, false
	}
	return *s.users[s.userOrder[0]], true
}

// Users returns one page (1-based) and the total count.
func (s *Store) Users(page, limit int) ([]chizen.User, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.userOrder)
	start := (page - 1) * limit
	if start >= total || start < 0 {
		return []chizen.User{}, total
	}
	end := min(start+limit, total)

	users := make([]chizen.User, 0, end-start)
	for _, id := range s.userOrder[start:end] {
		users = append(users, *s.users[id])
	}
	return users, total
}

func (s *Store) UpdateUser(id string, update chizen.UserUpdate) (chizen.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return chizen.User{}, ErrUserNotFound
	}
	if update.Email != nil {
		oldEmail, newEmail := strings.ToLower(u.Email), strings.ToLower(*update.Email)
		if acc, ok := s.accounts[oldEmail]; ok && acc.userID == id && oldEmail != newEmail {
			delete(s.accounts, oldEmail)
			s.accounts[newEmail] = acc
		}
		u.Email = *update.Email
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.FitnessLevel != nil {
		u.FitnessLevel = *update.FitnessLevel
	}
	if update.Preferences != nil {
		u.Preferences = *update.Preferences
	}
	if update.TotalXP != nil {
		u.TotalXP = *update.TotalXP
	}
	if update.IsAdmin != nil {
		u.IsAdmin = *update.IsAdmin
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	return *u, nil
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	if acc, ok := s.accounts[strings.ToLower(u.Email)]; ok && acc.userID == id {
		delete(s.accounts, strings.ToLower(u.Email))
	}
	for i, uid := range s.userOrder {
		if uid == id {
			s.userOrder = append(s.userOrder[:i], s.userOrder[i+1:]...)
			break
		}
	}
	return nil
}

// AddXP credits a completed routine to the user.
func (s *Store) AddXP(id string, xp, newStreak int, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return
	}
	u.TotalXP += xp
	u.StreakData.Current = newStreak
	u.StreakData.Longest = max(u.StreakData.Longest, newStreak)
	u.StreakData.LastCompleted = &at
}

// Leaderboard ranks users by xp, then streak.
func (s *Store) Leaderboard(limit int) []chizen.LeaderboardEntry {
	s.mu.RLock()
	users := make([]chizen.User, 0, len(s.users))
	for _, id := range s.userOrder {
		users = append(users, *s.users[id])
	}
	s.mu.RUnlock()

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalXP != users[j].TotalXP {
			return users[i].TotalXP > users[j].TotalXP
		}
		return users[i].StreakData.Current > users[j].StreakData.Current
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	entries := make([]chizen.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, chizen.LeaderboardEntry{
			Username: u.Username,
			Streak:   u.StreakData.Current,
			TotalXP:  u.TotalXP,
			Rank:     i + 1,
		})
	}
	return entries
}

func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) AddRoutine(r chizen.Routine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines = append(s.routines, r)
}

func (s *Store) RoutineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routines)
}

// Routines returns one page of generated routines, newest first.
func (s *Store) Routines(page, limit int) ([]chizen.Routine, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.routines)
	start := (page - 1) * limit
	if start >= total || start < 0 {
		return []chizen.Routine{}, total
	}
	end := min(start+limit, total)

	routines := make([]chizen.Routine, 0, end-start)
	for i := total - 1 - start; i > total-1-end; i-- {
		routines = append(routines, s.routines[i])
	}
	return routines, total
}

// Subscribe returns false when the email was already subscribed.
func (s *Store) Subscribe(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	if s.newsletter[email] {
		return false
	}
	s.newsletter[email] = true
	return true
}

// Unsubscribe returns false when the email was not subscribed.
func (s *Store) Unsubscribe(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	if !s.newsletter[email] {
		return false
	}
	delete(s.newsletter, email)
	return true
}
