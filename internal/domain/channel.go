package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Channel is one broadcast channel with its schedule. Programs attach during
// the guide's cross-link pass and stay sorted ascending by start time.
type Channel struct {
	ID   string
	Name string
	Icon *Image

	programs []*Program
}

// NewChannel validates the channel identity: both the feed id and the
// display name must be present and non-blank.
func NewChannel(id, name string) (*Channel, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: channel missing id", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: channel %q missing display name", ErrInvalidInput, id)
	}
	return &Channel{ID: id, Name: name}, nil
}

// linkProgram attaches a program and restores start-time order. Stable, so
// programs sharing a start keep their feed order. Called only from NewGuide.
func (c *Channel) linkProgram(p *Program) {
	c.programs = append(c.programs, p)
	sort.SliceStable(c.programs, func(i, j int) bool {
		return c.programs[i].Start.Before(c.programs[j].Start)
	})
}

// Programs returns the channel's schedule in start order. The slice is a
// copy; callers cannot disturb the channel's internal ordering.
func (c *Channel) Programs() []*Program {
	out := make([]*Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// GetCurrentProgram returns the program airing at the given instant, using
// the half-open interval [start, end): a program is current at its exact
// start and no longer current at its exact end. Nil when nothing airs.
func (c *Channel) GetCurrentProgram(at time.Time) *Program {
	for _, p := range c.programs {
		if !at.Before(p.Start) && at.Before(p.End) {
			return p
		}
	}
	return nil
}

// GetNextProgram returns the first program starting at or after the given
// instant. At a program's exact start that program is both current and
// next. Nil when the schedule ends before the instant.
func (c *Channel) GetNextProgram(at time.Time) *Program {
	for _, p := range c.programs {
		if !p.Start.Before(at) {
			return p
		}
	}
	return nil
}

// LastProgram returns the final program in the schedule, or nil when the
// channel has none. Useful for judging how far guide coverage extends.
func (c *Channel) LastProgram() *Program {
	if len(c.programs) == 0 {
		return nil
	}
	return c.programs[len(c.programs)-1]
}

// DisplayName returns the channel name with a leading two-character ordering
// prefix ("01: First", "fr: Arte") stripped, as some grabbers emit. Only the
// exact "??: " shape is treated as a prefix.
func (c *Channel) DisplayName() string {
	if len(c.Name) > 4 && c.Name[2] == ':' && c.Name[3] == ' ' {
		return c.Name[4:]
	}
	return c.Name
}
