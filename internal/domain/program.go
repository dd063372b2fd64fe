package domain

import (
	"fmt"
	"strings"
	"time"
)

// Program is one guide entry on a channel. Programs are created unlinked;
// the owning Guide sets the channel back-reference during its cross-link
// pass, so Channel() returns nil until the program is part of a guide.
type Program struct {
	ChannelID   string
	Start       time.Time
	End         time.Time
	Title       string
	Subtitle    string
	Description string
	Language    string
	Released    *ReleaseDate
	Episodes    []EpisodeNumber
	Categories  []Category
	Icon        *Image

	channel *Channel
}

// NewProgram validates the program's timing invariant: the end must be
// strictly after the start (zero-duration entries are rejected too).
func NewProgram(channelID string, start, end time.Time, title string) (*Program, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, fmt.Errorf("%w: program missing channel id", ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: program %q on %s ends at or before start (%s >= %s)",
			ErrInvalidInput, title, channelID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return &Program{ChannelID: channelID, Start: start, End: end, Title: title}, nil
}

// Channel returns the channel this program airs on, or nil if the program
// has not been linked into a guide.
func (p *Program) Channel() *Channel {
	return p.channel
}

// linkChannel sets the back-reference. Called only from NewGuide.
func (p *Program) linkChannel(c *Channel) {
	p.channel = c
}

// Duration returns how long the program runs. Always positive.
func (p *Program) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Episode picks the most informative episode number across all declared
// numbering systems. Entries are compared by how many of (season, episode)
// they carry; a later entry replaces an earlier one only when strictly more
// informative, so the first best entry wins ties. Returns a zero value when
// no entry carries anything.
func (p *Program) Episode() SeasonEpisode {
	var best SeasonEpisode
	for _, num := range p.Episodes {
		if v := num.Value(); v.Score() > best.Score() {
			best = v
			if best.Score() == 2 {
				break
			}
		}
	}
	return best
}

// FullTitle combines title, subtitle and episode number into a single
// display string: `Title - Subtitle (S01E02)`, with absent parts skipped.
func (p *Program) FullTitle() string {
	var b strings.Builder
	b.WriteString(p.Title)
	if p.Subtitle != "" {
		b.WriteString(" - ")
		b.WriteString(p.Subtitle)
	}
	if ep := p.Episode().Onscreen(); ep != "" {
		b.WriteString(" (")
		b.WriteString(ep)
		b.WriteString(")")
	}
	return b.String()
}
