package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// PresenceInterval is how often the status line rotates.
const PresenceInterval = 8 * time.Second

var watchingLines = []string{
	"quién será el ganador...",
	"la Gala en Directo",
	"a los nominados temblar",
	"spainrp.xyz",
	"Supervisando votaciones",
}

func countdown(gala, now time.Time) string {
	diff := gala.Sub(now)
	if diff <= 0 {
		return "¡La Gala es HOY!"
	}
	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)
	return fmt.Sprintf("Faltan %dd %dh para la Gala", days, hours)
}

// activity returns the status text for tick i: even ticks show the
// countdown, odd ticks walk the fixed lines.
func activity(i int, gala, now time.Time) string {
	if i%2 == 0 {
		return countdown(gala, now)
	}
	return watchingLines[(i/2)%len(watchingLines)]
}

func presence(text string) discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusDoNotDisturb),
		Activities: []*discordgo.Activity{
			{Name: text, Type: discordgo.ActivityTypeWatching},
		},
	}
}

func (b *Bot) rotatePresence(ctx context.Context) {
	ticker := time.NewTicker(b.opts.PresenceInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if err := b.api.SetPresence(presence(activity(i, b.opts.Gala, b.now()))); err != nil {
			b.log.Debug("Presence update failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
