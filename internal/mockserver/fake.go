package mockserver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/chizen/internal/chizen"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	routineTitles = []string{"Morning Energy Flow", "Evening Calm", "Mindful Movement", "Balance & Grace"}
	focusAreas    = []string{"Balance & Flexibility", "Strength & Mobility", "Relaxation & Calm"}
	dailyWisdoms  = []string{
		"Progress, not perfection.",
		"Every breath is a new beginning.",
		"Strength grows in the moments when you think you can't go on.",
		"The body achieves what the mind believes.",
	}
	routineDurations = []int{10, 15, 20}
)

// generator fabricates randomized payloads. A fixed seed gives a
// reproducible sequence, 0 seeds it randomly.
type generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

func newGenerator(seed int64) *generator {
	return &generator{faker: gofakeit.New(seed)}
}

// intRange returns a random int in [min, max].
func (g *generator) intRange(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.IntRange(lo, hi)
}

func (g *generator) pick(options []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.RandomString(options)
}

func (g *generator) pickInt(options []int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.RandomInt(options)
}

// chance reports true with probability p.
func (g *generator) chance(p float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Float64Range(0, 1) < p
}

// id returns a unique identifier under prefix.
func (g *generator) id(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return prefix + "-" + g.faker.UUID()
}

func (g *generator) username() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Username()
}

func demoPreferences() chizen.Preferences {
	return chizen.Preferences{
		Duration:   15,
		FocusAreas: []string{"flexibility", "mindfulness"},
		Language:   "en",
	}
}

// loginUser is the demo user created by any login.
func (g *generator) loginUser(email string, now time.Time) chizen.User {
	lastCompleted := now
	return chizen.User{
		ID:           g.id("user"),
		Email:        email,
		Username:     usernameFromEmail(email),
		FitnessLevel: chizen.FitnessBeginner,
		Preferences:  demoPreferences(),
		StreakData: chizen.StreakData{
			Current:       g.intRange(0, 6),
			Longest:       g.intRange(0, 20),
			LastCompleted: &lastCompleted,
		},
		TotalXP:   g.intRange(0, 499),
		IsAdmin:   strings.Contains(email, "admin"),
		IsActive:  true,
		CreatedAt: now,
	}
}

func newUser(id, email, username string, level chizen.FitnessLevel, now time.Time) chizen.User {
	if username == "" {
		username = usernameFromEmail(email)
	}
	if level == "" {
		level = chizen.FitnessBeginner
	}
	return chizen.User{
		ID:           id,
		Email:        email,
		Username:     username,
		FitnessLevel: level,
		Preferences:  demoPreferences(),
		IsActive:     true,
		CreatedAt:    now,
	}
}

func usernameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func (g *generator) routine(now time.Time) chizen.Routine {
	return chizen.Routine{
		ID:              fmt.Sprintf("routine-%d", now.UnixNano()),
		RoutineID:       g.id("generated"),
		Title:           g.pick(routineTitles),
		TotalDuration:   g.pickInt(routineDurations),
		FocusArea:       g.pick(focusAreas),
		DifficultyLevel: g.intRange(1, 3),
		Blocks: []chizen.RoutineBlock{
			{
				Type:            chizen.BlockMind,
				Name:            "Breath Awareness",
				DurationSeconds: 180,
				Instructions: []string{
					"Find a comfortable seated position",
					"Close your eyes gently",
					"Focus on natural breath rhythm",
				},
				Difficulty: 1,
				AudioCue:   "Let's begin with mindful breathing.",
				Benefits:   []string{"Calms mind", "Improves focus"},
			},
			{
				Type:            chizen.BlockMove,
				Name:            "Gentle Flow",
				DurationSeconds: 420,
				Instructions: []string{
					"Stand tall with feet grounded",
					"Move with intention and grace",
					"Flow between postures smoothly",
				},
				Difficulty: 2,
				AudioCue:   "Move with the rhythm of your breath.",
				Benefits:   []string{"Improves flexibility", "Enhances balance"},
			},
			{
				Type:            chizen.BlockCore,
				Name:            "Foundation Building",
				DurationSeconds: 300,
				Instructions: []string{
					"Engage your core gently",
					"Hold positions with control",
					"Breathe steadily throughout",
				},
				Difficulty: 2,
				AudioCue:   "Strengthen from your center.",
				Benefits:   []string{"Builds core strength", "Improves stability"},
			},
		},
		CompletionXP: g.intRange(50, 99),
		DailyWisdom:  g.pick(dailyWisdoms),
		CreatedAt:    now,
	}
}

func (g *generator) progress() chizen.Progress {
	last7Days := make([]bool, 7)
	for i := range last7Days {
		last7Days[i] = g.chance(0.7)
	}
	return chizen.Progress{
		CurrentStreak: g.intRange(1, 7),
		LongestStreak: g.intRange(5, 19),
		TotalXP:       g.intRange(200, 1199),
		TotalSessions: g.intRange(10, 39),
		Last7Days:     last7Days,
		MonthlyStats: chizen.MonthlyStats{
			SessionsThisMonth: g.intRange(5, 29),
			XPThisMonth:       g.intRange(100, 599),
		},
	}
}

func (g *generator) completion() chizen.CompleteRoutineResult {
	return chizen.CompleteRoutineResult{
		XPEarned:      g.intRange(50, 99),
		StreakUpdated: true,
		NewStreak:     g.intRange(1, 10),
	}
}

func (g *generator) dailySignups(now time.Time) []chizen.DailySignup {
	signups := make([]chizen.DailySignup, 0, 7)
	for i := 6; i >= 0; i-- {
		signups = append(signups, chizen.DailySignup{
			Date:  now.AddDate(0, 0, -i).UTC().Format(time.DateOnly),
			Count: g.intRange(1, 10),
		})
	}
	return signups
}
