package xmltv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// Parse decodes one XMLTV document into a fully linked guide.
//
// The document must have a <tv> root; anything else wraps
// domain.ErrBadDocument. Individual channels and programmes that fail
// validation are dropped and logged at debug, never failing the document.
func Parse(data []byte) (*domain.Guide, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// Feeds declare all sorts of encodings (ISO-8859-1, windows-1252).
	dec.CharsetReader = charset.NewReaderLabel

	var doc tvDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadDocument, err)
	}

	channels := collectValid(doc.Channels, parseChannel)
	programs := collectValid(doc.Programmes, parseProgram)

	if dropped := len(doc.Channels) - len(channels); dropped > 0 {
		slog.Debug("dropped invalid channels", "count", dropped)
	}
	if dropped := len(doc.Programmes) - len(programs); dropped > 0 {
		slog.Debug("dropped invalid programmes", "count", dropped)
	}

	info := domain.GuideInfo{
		SourceName:    doc.SourceInfoName,
		SourceURL:     doc.SourceInfoURL,
		GeneratorName: doc.GeneratorInfoName,
		GeneratorURL:  doc.GeneratorInfoURL,
	}
	return domain.NewGuide(info, channels, programs), nil
}

// collectValid parses a list item by item, keeping the successes and
// dropping the failures. One bad sibling never poisons the rest.
func collectValid[E, T any](items []E, parse func(E) (T, error)) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, err := parse(item)
		if err != nil {
			slog.Debug("skipping invalid guide item", "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseChannel(elem channelElem) (*domain.Channel, error) {
	if strings.TrimSpace(elem.DisplayName) == "" {
		return nil, fmt.Errorf("%w: channel %q missing display name", domain.ErrInvalidInput, elem.ID)
	}
	c, err := domain.NewChannel(elem.ID, elem.DisplayName)
	if err != nil {
		return nil, err
	}
	if elem.Icon != nil {
		icon, err := parseIcon(*elem.Icon)
		if err != nil {
			return nil, err
		}
		c.Icon = &icon
	}
	return c, nil
}

func parseProgram(elem programElem) (*domain.Program, error) {
	if elem.Title == nil {
		return nil, fmt.Errorf("%w: programme on %q missing title", domain.ErrInvalidInput, elem.Channel)
	}

	start, err := ParseTime(elem.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseTime(elem.Stop)
	if err != nil {
		return nil, err
	}

	p, err := domain.NewProgram(elem.Channel, start, end, elem.Title.Value)
	if err != nil {
		return nil, err
	}
	p.Subtitle = elem.Subtitle
	p.Description = elem.Description
	p.Language = elem.Language

	if strings.TrimSpace(elem.Date) != "" {
		released, err := domain.ParseReleaseDate(elem.Date)
		if err != nil {
			return nil, err
		}
		p.Released = &released
	}

	if elem.Icon != nil {
		icon, err := parseIcon(*elem.Icon)
		if err != nil {
			return nil, err
		}
		p.Icon = &icon
	}

	// Episode numbers and categories are tolerant lists of their own; a
	// malformed entry drops that entry, not the programme.
	p.Episodes = collectValid(elem.EpisodeNums, func(e episodeElem) (domain.EpisodeNumber, error) {
		return domain.ParseEpisodeNumber(e.System, e.Value)
	})
	p.Categories = collectValid(elem.Categories, func(c categoryElem) (domain.Category, error) {
		return domain.NewCategory(c.Value, c.Lang)
	})

	return p, nil
}

func parseIcon(elem iconElem) (domain.Image, error) {
	width, err := parseDimension(elem.Width)
	if err != nil {
		return domain.Image{}, err
	}
	height, err := parseDimension(elem.Height)
	if err != nil {
		return domain.Image{}, err
	}
	return domain.NewImage(elem.Src, width, height)
}

func parseDimension(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: icon dimension %q", domain.ErrInvalidInput, raw)
	}
	return n, nil
}
