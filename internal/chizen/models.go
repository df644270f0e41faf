package chizen

import "time"

type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

type BlockType string

const (
	BlockMove BlockType = "move"
	BlockMind BlockType = "mind"
	BlockCore BlockType = "core"
)

type Feedback string

const (
	FeedbackEasy        Feedback = "easy"
	FeedbackPerfect     Feedback = "perfect"
	FeedbackChallenging Feedback = "challenging"
)

type Preferences struct {
	Duration   int      `json:"duration"`
	FocusAreas []string `json:"focus_areas"`
	Language   string   `json:"language"`
}

type StreakData struct {
	Current       int        `json:"current"`
	Longest       int        `json:"longest"`
	LastCompleted *time.Time `json:"last_completed"`
}

type User struct {
	ID            string       `json:"_id"`
	Email         string       `json:"email"`
	Username      string       `json:"username"`
	FitnessLevel  FitnessLevel `json:"fitness_level"`
	Preferences   Preferences  `json:"preferences"`
	StreakData    StreakData   `json:"streak_data"`
	TotalXP       int          `json:"total_xp"`
	IsAdmin       bool         `json:"is_admin"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	OAuthProvider string       `json:"oauth_provider,omitempty"`
	OAuthID       string       `json:"oauth_id,omitempty"`
}

// UserUpdate is a partial user, nil fields are left untouched.
type UserUpdate struct {
	Email        *string       `json:"email,omitempty"`
	Username     *string       `json:"username,omitempty"`
	FitnessLevel *FitnessLevel `json:"fitness_level,omitempty"`
	Preferences  *Preferences  `json:"preferences,omitempty"`
	TotalXP      *int          `json:"total_xp,omitempty"`
	IsAdmin      *bool         `json:"is_admin,omitempty"`
	IsActive     *bool         `json:"is_active,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	Password     string       `json:"password"`
	FitnessLevel FitnessLevel `json:"fitness_level,omitempty"`
}

type GoogleLoginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	GoogleID string `json:"google_id"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type RoutineBlock struct {
	Type            BlockType `json:"type"`
	Name            string    `json:"name"`
	DurationSeconds int       `json:"duration_seconds"`
	Instructions    []string  `json:"instructions"`
	Difficulty      int       `json:"difficulty"`
	AudioCue        string    `json:"audio_cue"`
	Benefits        []string  `json:"benefits"`
}

type Routine struct {
	ID              string         `json:"_id"`
	RoutineID       string         `json:"routine_id"`
	Title           string         `json:"title"`
	TotalDuration   int            `json:"total_duration"`
	FocusArea       string         `json:"focus_area"`
	DifficultyLevel int            `json:"difficulty_level"`
	Blocks          []RoutineBlock `json:"blocks"`
	CompletionXP    int            `json:"completion_xp"`
	DailyWisdom     string         `json:"daily_wisdom"`
	CreatedAt       time.Time      `json:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

type CompleteRoutineRequest struct {
	RoutineID          string   `json:"routine_id"`
	DurationCompleted  int      `json:"duration_completed,omitempty"`
	ExercisesCompleted int      `json:"exercises_completed,omitempty"`
	Feedback           Feedback `json:"feedback,omitempty"`
}

type CompleteRoutineResult struct {
	XPEarned      int  `json:"xp_earned"`
	StreakUpdated bool `json:"streak_updated"`
	NewStreak     int  `json:"new_streak"`
}

type RoutineHistory struct {
	Routines []Routine `json:"routines"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

type MonthlyStats struct {
	SessionsThisMonth int `json:"sessions_this_month"`
	XPThisMonth       int `json:"xp_this_month"`
}

type Progress struct {
	CurrentStreak int          `json:"current_streak"`
	LongestStreak int          `json:"longest_streak"`
	TotalXP       int          `json:"total_xp"`
	TotalSessions int          `json:"total_sessions"`
	Last7Days     []bool       `json:"last_7_days"`
	MonthlyStats  MonthlyStats `json:"monthly_stats"`
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Streak   int    `json:"streak"`
	TotalXP  int    `json:"total_xp"`
	Rank     int    `json:"rank"`
}

type Leaderboard struct {
	Users []LeaderboardEntry `json:"users"`
}

type UsersPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type DailySignup struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type UserRetention struct {
	Day1  float64 `json:"day_1"`
	Day7  float64 `json:"day_7"`
	Day30 float64 `json:"day_30"`
}

type Analytics struct {
	TotalUsers     int             `json:"total_users"`
	ActiveUsers    int             `json:"active_users"`
	TotalRoutines  int             `json:"total_routines"`
	CompletionRate float64         `json:"completion_rate"`
	AvgStreak      float64         `json:"avg_streak"`
	TopCategories  []CategoryCount `json:"top_categories"`
	DailySignups   []DailySignup   `json:"daily_signups"`
	UserRetention  UserRetention   `json:"user_retention"`
}

type VoiceRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

type VoiceResponse struct {
	AudioURL string `json:"audio_url"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type Message struct {
	Message string `json:"message"`
}
