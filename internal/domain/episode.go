package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberingSystem identifies the episode numbering convention declared by an
// <episode-num> entry's "system" attribute.
type NumberingSystem int

const (
	// NumberingUnknown covers every system this package does not understand.
	// Entries in an unknown system parse successfully but carry no value.
	NumberingUnknown NumberingSystem = iota

	// NumberingOnscreen is the human-readable "SxxExx" convention, declared
	// as either "SxxExx" or "onscreen" in the wild. Values are 1-based.
	NumberingOnscreen

	// NumberingXMLTVNS is the dot-separated "season.episode.part" convention
	// from the XMLTV DTD. Values are 0-based on the wire.
	NumberingXMLTVNS
)

func (n NumberingSystem) String() string {
	switch n {
	case NumberingOnscreen:
		return "onscreen"
	case NumberingXMLTVNS:
		return "xmltv_ns"
	default:
		return "unknown"
	}
}

// numberingSystemFromName maps the raw system attribute to a known system.
func numberingSystemFromName(name string) NumberingSystem {
	switch name {
	case "SxxExx", "onscreen":
		return NumberingOnscreen
	case "xmltv_ns":
		return NumberingXMLTVNS
	default:
		return NumberingUnknown
	}
}

// SeasonEpisode is a normalized, 1-based (season, episode) pair. A zero
// field means that value is not available; normalized values are always
// >= 1, so zero is never ambiguous.
type SeasonEpisode struct {
	Season  int
	Episode int
}

// Score counts how many fields carry a value (0..2). Used to pick the most
// informative entry when a program declares several numbering systems.
func (se SeasonEpisode) Score() int {
	score := 0
	if se.Season > 0 {
		score++
	}
	if se.Episode > 0 {
		score++
	}
	return score
}

// Onscreen renders the pair in listing style ("S01E02", "S01", "E02"),
// zero-padded to at least two digits. Returns "" if neither value is set.
func (se SeasonEpisode) Onscreen() string {
	var b strings.Builder
	if se.Season > 0 {
		fmt.Fprintf(&b, "S%02d", se.Season)
	}
	if se.Episode > 0 {
		fmt.Fprintf(&b, "E%02d", se.Episode)
	}
	return b.String()
}

// EpisodeNumber is one episode-numbering assertion as found on a program.
type EpisodeNumber struct {
	System NumberingSystem
	Raw    string

	value SeasonEpisode
}

// ParseEpisodeNumber parses one <episode-num> entry. Unknown systems are not
// an error; they yield an entry with an empty value. A malformed raw value
// under a known system is an error, so tolerant list parsing can omit the
// entry without touching its siblings.
func ParseEpisodeNumber(system, raw string) (EpisodeNumber, error) {
	if system == "" {
		return EpisodeNumber{}, fmt.Errorf("%w: episode-num missing system", ErrInvalidInput)
	}

	num := EpisodeNumber{System: numberingSystemFromName(system), Raw: raw}

	var err error
	switch num.System {
	case NumberingOnscreen:
		num.value, err = parseOnscreen(raw)
	case NumberingXMLTVNS:
		num.value, err = parseXMLTVNS(raw)
	default:
		// Unknown system: no information, but not an error.
	}
	if err != nil {
		return EpisodeNumber{}, err
	}

	return num, nil
}

// Value returns the normalized (season, episode) pair.
func (e EpisodeNumber) Value() SeasonEpisode {
	return e.value
}

// parseOnscreen handles the S<n>E<m>, S<n> and E<m> forms. Numbers are
// 1-based with no fixed digit width.
func parseOnscreen(raw string) (SeasonEpisode, error) {
	val := strings.ToUpper(strings.TrimSpace(raw))
	if val == "" {
		return SeasonEpisode{}, fmt.Errorf("%w: empty onscreen episode number", ErrInvalidInput)
	}

	if strings.HasPrefix(val, "E") {
		// Episode-only form E<m>.
		episode, err := parseEpisodeInt(val[1:])
		if err != nil {
			return SeasonEpisode{}, err
		}
		return SeasonEpisode{Episode: episode}, nil
	}

	// Season form S<n>, optionally followed by E<m>.
	seasonPart, episodePart, _ := strings.Cut(val, "E")
	if !strings.HasPrefix(seasonPart, "S") {
		return SeasonEpisode{}, fmt.Errorf("%w: onscreen episode number %q", ErrInvalidInput, raw)
	}

	season, err := parseEpisodeInt(seasonPart[1:])
	if err != nil {
		return SeasonEpisode{}, err
	}

	se := SeasonEpisode{Season: season}
	if episodePart != "" {
		se.Episode, err = parseEpisodeInt(episodePart)
		if err != nil {
			return SeasonEpisode{}, err
		}
	}

	return se, nil
}

// parseXMLTVNS handles the "<season>.<episode>.<part>" form. Fields are
// 0-based and optionally empty; present fields convert to 1-based. The part
// field is positional only and never surfaced (matching common usage, where
// it frequently contains fractions like "0/2").
func parseXMLTVNS(raw string) (SeasonEpisode, error) {
	fields := strings.Split(raw, ".")
	if len(fields) != 3 {
		return SeasonEpisode{}, fmt.Errorf("%w: xmltv_ns episode number %q", ErrInvalidInput, raw)
	}

	var se SeasonEpisode
	if s := strings.TrimSpace(fields[0]); s != "" {
		season, err := parseEpisodeInt(s)
		if err != nil {
			return SeasonEpisode{}, err
		}
		se.Season = season + 1
	}
	if e := strings.TrimSpace(fields[1]); e != "" {
		episode, err := parseEpisodeInt(e)
		if err != nil {
			return SeasonEpisode{}, err
		}
		se.Episode = episode + 1
	}

	return se, nil
}

// parseEpisodeInt converts one numeric field, tolerating surrounding
// whitespace ("S5 E34" appears in real feeds).
func parseEpisodeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: episode number field %q", ErrInvalidInput, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative episode number field %q", ErrInvalidInput, s)
	}
	return n, nil
}
