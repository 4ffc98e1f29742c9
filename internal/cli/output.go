package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mcoot/hardercore-api/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printHealth(v)
	case response.World:
		o.printWorld(v)
	case response.Uptime:
		o.printUptime(v)
	case response.PlayerStats:
		o.printPlayerStats(v)
	case response.StatsList:
		o.printStatsList(v)
	case response.StatsUpdate:
		o.printStatsUpdate(v)
	case response.DatabasePath:
		fmt.Fprintf(o.w, "Database: %s\n", v.Path)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "World: %d\n", h.World)
	if h.LastSaved != nil {
		fmt.Fprintf(o.w, "Last saved: %s\n", h.LastSaved.Format("2006-01-02 15:04:05 MST"))
	} else {
		fmt.Fprintln(o.w, "Last saved: never")
	}
	fmt.Fprintf(o.w, "Saves: %d (%d failed)\n", h.Saves, h.Failures)
	if h.LastError != "" {
		fmt.Fprintf(o.w, "Last error: %s\n", h.LastError)
	}
}

func (o *Output) printWorld(w response.World) {
	fmt.Fprintf(o.w, "World: %d of %d\n", w.World, w.Count)
	if w.Death != nil {
		fmt.Fprintf(o.w, "Ended by: %s (%s: %s)\n", w.Death.Killer, w.Death.SourceType, w.Death.SourceName)
	}
}

func (o *Output) printUptime(u response.Uptime) {
	fmt.Fprintf(o.w, "World uptime: %ds\n", u.World)
	fmt.Fprintf(o.w, "Total uptime: %ds\n", u.Total)
}

func (o *Output) printPlayerStats(p response.PlayerStats) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	if p.SkinURL != "" {
		fmt.Fprintf(o.w, "Skin: %s\n", p.SkinURL)
	}
	fmt.Fprintf(o.w, "  Time in water:     %d\n", p.TimeInWater)
	fmt.Fprintf(o.w, "  Time in nether:    %d\n", p.TimeInNether)
	fmt.Fprintf(o.w, "  Damage taken:      %d\n", p.DamageTaken)
	fmt.Fprintf(o.w, "  Mobs killed:       %d\n", p.MobsKilled)
	fmt.Fprintf(o.w, "  Food eaten:        %d\n", p.FoodEaten)
	fmt.Fprintf(o.w, "  Experience gained: %d\n", p.ExperienceGained)
}

func (o *Output) printStatsList(l response.StatsList) {
	fmt.Fprintf(o.w, "World %d: %d players\n", l.World, len(l.Players))
	for _, p := range l.Players {
		fmt.Fprintf(o.w, "  - %s (%s) water=%d nether=%d damage=%d mobs=%d food=%d xp=%d\n",
			p.DisplayName, p.ID, p.TimeInWater, p.TimeInNether, p.DamageTaken,
			p.MobsKilled, p.FoodEaten, p.ExperienceGained)
	}
}

func (o *Output) printStatsUpdate(u response.StatsUpdate) {
	o.printPlayerStats(u.Player)
	if u.WorldEnded {
		fmt.Fprintf(o.w, "World ended; now on world %d\n", u.World)
	}
}
