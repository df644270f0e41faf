package chizen

import (
	"context"
	"time"

	"github.com/2beens/chizen/internal/apiclient"

	log "github.com/sirupsen/logrus"
)

const TemplateRoutineID = "template-morning-flow"

// TemplateRoutine is served when a routine cannot be generated remotely.
func TemplateRoutine(now time.Time) Routine {
	return Routine{
		ID:              TemplateRoutineID,
		RoutineID:       TemplateRoutineID,
		Title:           "Morning Energy Flow",
		TotalDuration:   15,
		FocusArea:       "Balance & Flexibility",
		DifficultyLevel: 2,
		Blocks: []RoutineBlock{
			{
				Type:            BlockMind,
				Name:            "Awakening Breath",
				DurationSeconds: 180,
				Instructions: []string{
					"Sit comfortably with spine straight",
					"Take 5 deep breaths to center yourself",
					"Focus on the sensation of breathing",
				},
				Difficulty: 1,
				AudioCue:   "Good morning! Let's awaken your body and mind with gentle breathing.",
				Benefits:   []string{"Increases alertness", "Reduces morning fog"},
			},
			{
				Type:            BlockMove,
				Name:            "Sunrise Salutation",
				DurationSeconds: 480,
				Instructions: []string{
					"Stand with feet hip-width apart",
					"Slowly raise arms overhead like the rising sun",
					"Flow through gentle Tai Chi movements",
					"Coordinate breath with movement",
				},
				Difficulty: 2,
				AudioCue:   "Move like the gentle morning breeze, flowing and continuous.",
				Benefits:   []string{"Improves flexibility", "Enhances coordination"},
			},
			{
				Type:            BlockCore,
				Name:            "Foundation Building",
				DurationSeconds: 240,
				Instructions: []string{
					"Wall plank for 30 seconds",
					"Rest 15 seconds",
					"Repeat 4 times with mindful breathing",
				},
				Difficulty: 2,
				AudioCue:   "Build strength from your center, breathe with intention.",
				Benefits:   []string{"Strengthens core", "Improves posture"},
			},
		},
		CompletionXP: 80,
		DailyWisdom:  "Each morning we are born again. What we do today is what matters most.",
		CreatedAt:    now,
	}
}

// RoutineOrTemplate generates a new routine, falling back to the template
// one when the call fails. The returned error info is nil unless the
// template was used.
func (c *Client) RoutineOrTemplate(ctx context.Context) (Routine, *apiclient.ErrorInfo) {
	res := c.GenerateRoutine(ctx)
	if res.OK {
		return res.Value, nil
	}
	log.Warnf("generate routine failed, using template routine: %s", res.Error.Message)
	return TemplateRoutine(time.Now()), res.Error
}
