package domain

// GuideInfo carries the attribution metadata from a feed's <tv> element.
// All fields are optional.
type GuideInfo struct {
	SourceName    string
	SourceURL     string
	GeneratorName string
	GeneratorURL  string
}

// Guide is the fully linked result of parsing one XMLTV document. A Guide
// is immutable after construction: NewGuide deduplicates channels, builds
// the id index and cross-links every program before returning, so callers
// never observe a half-linked guide.
type Guide struct {
	info GuideInfo

	channels []*Channel
	programs []*Program
	byID     map[string]*Channel
}

// NewGuide assembles a guide from parsed channels and programs.
//
// Channels sharing an id keep the first occurrence; later duplicates are
// dropped. Programs referencing a channel id that survived dedup are linked
// both ways (channel schedule + program back-reference); programs pointing
// at unknown channels are kept in the guide's flat program list but stay
// unlinked, matching feeds that carry programme data for channels they
// never declare.
func NewGuide(info GuideInfo, channels []*Channel, programs []*Program) *Guide {
	g := &Guide{
		info: info,
		byID: make(map[string]*Channel, len(channels)),
	}

	for _, c := range channels {
		if _, dup := g.byID[c.ID]; dup {
			continue
		}
		g.byID[c.ID] = c
		g.channels = append(g.channels, c)
	}

	for _, p := range programs {
		g.programs = append(g.programs, p)
		if c, ok := g.byID[p.ChannelID]; ok {
			c.linkProgram(p)
			p.linkChannel(c)
		}
	}

	return g
}

// GetChannel looks a channel up by feed id. Nil when unknown.
func (g *Guide) GetChannel(id string) *Channel {
	return g.byID[id]
}

// Channels returns all channels in feed order (copy).
func (g *Guide) Channels() []*Channel {
	out := make([]*Channel, len(g.channels))
	copy(out, g.channels)
	return out
}

// Programs returns all programs in feed order (copy), including any that
// reference undeclared channels.
func (g *Guide) Programs() []*Program {
	out := make([]*Program, len(g.programs))
	copy(out, g.programs)
	return out
}

// Info returns the feed attribution metadata.
func (g *Guide) Info() GuideInfo {
	return g.info
}

// Name returns the best available name for the feed: the generator name
// when present, the source name otherwise, "" when neither was supplied.
func (g *Guide) Name() string {
	if g.info.GeneratorName != "" {
		return g.info.GeneratorName
	}
	return g.info.SourceName
}

// URL returns the best available URL for the feed, preferring the
// generator's over the source's.
func (g *Guide) URL() string {
	if g.info.GeneratorURL != "" {
		return g.info.GeneratorURL
	}
	return g.info.SourceURL
}
