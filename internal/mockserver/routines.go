package mockserver

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/chizen/internal/chizen"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	oneDay   = 24 * 60 * 60
	megabyte = 1024 * 1024
	// freecache rejects entries above 1/1024 of its size
	routineCache = 50 * megabyte
)

// todayRoutines keeps the routine of the day stable for the whole calendar
// day, the cache entry expiring a day after creation.
type todayRoutines struct {
	cache *freecache.Cache
}

func newTodayRoutines() *todayRoutines {
	return &todayRoutines{cache: freecache.NewCache(routineCache)}
}

func todayCacheKey(now time.Time) []byte {
	return []byte("today::" + now.Format(time.DateOnly))
}

func (t *todayRoutines) Get(now time.Time) chizen.Routine {
	key := todayCacheKey(now)
	if routineBytes, err := t.cache.Get(key); err == nil {
		var routine chizen.Routine
		if err := json.Unmarshal(routineBytes, &routine); err == nil {
			return routine
		} else {
			log.Errorf("unmarshal cached today routine: %s", err)
		}
	}

	routine := todayRoutine(now)
	routineBytes, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("marshal today routine: %s", err)
		return routine
	}
	if err := t.cache.Set(key, routineBytes, oneDay); err != nil {
		log.Errorf("set today routine cache: %s", err)
	}
	return routine
}

func todayRoutine(now time.Time) chizen.Routine {
	day := now.Format(time.DateOnly)
	return chizen.Routine{
		ID:              "routine-" + day,
		RoutineID:       fmt.Sprintf("today-%d", now.UnixMilli()),
		Title:           "Morning Mindful Movement",
		TotalDuration:   15,
		FocusArea:       "Balance & Flexibility",
		DifficultyLevel: 2,
		Blocks: []chizen.RoutineBlock{
			{
				Type:            chizen.BlockMind,
				Name:            "Centering Breath",
				DurationSeconds: 180,
				Instructions: []string{
					"Sit comfortably with spine straight",
					"Take 5 deep breaths to center yourself",
					"Focus on the sensation of breathing",
				},
				Difficulty: 1,
				AudioCue:   "Welcome to your practice. Let's begin by finding your center.",
				Benefits:   []string{"Reduces stress", "Improves focus"},
			},
			{
				Type:            chizen.BlockMove,
				Name:            "Flowing River",
				DurationSeconds: 480,
				Instructions: []string{
					"Stand with feet hip-width apart",
					"Raise arms slowly like flowing water",
					"Move with smooth, continuous motion",
					"Coordinate breath with movement",
				},
				Difficulty: 2,
				AudioCue:   "Move like water, smooth and continuous.",
				Benefits:   []string{"Improves flexibility", "Enhances coordination"},
			},
			{
				Type:            chizen.BlockCore,
				Name:            "Gentle Strength",
				DurationSeconds: 240,
				Instructions: []string{
					"Modified plank against wall",
					"Hold for 30 seconds, rest 30 seconds",
					"Repeat 4 times with mindful breathing",
				},
				Difficulty: 2,
				AudioCue:   "Build strength from your center.",
				Benefits:   []string{"Strengthens core", "Improves posture"},
			},
		},
		CompletionXP: 80,
		DailyWisdom:  "The journey of a thousand miles begins with a single step.",
		CreatedAt:    now,
	}
}
