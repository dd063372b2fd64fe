// Package http exposes the guide as a JSON read API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/githubixx/xmltv-epg-go/internal/application/services"
	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	guideService *services.GuideService
	logger       *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(guideService *services.GuideService, logger *slog.Logger) *Handler {
	return &Handler{
		guideService: guideService,
		logger:       logger,
	}
}

// channelDTO is the JSON shape of a channel.
type channelDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Slug        string    `json:"slug"`
	Icon        *imageDTO `json:"icon,omitempty"`
}

type imageDTO struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// programDTO is the JSON shape of a program. Program is null in query
// responses when nothing matches.
type programDTO struct {
	ChannelID   string         `json:"channel_id"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	DurationSec int            `json:"duration_seconds"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	Description string         `json:"description,omitempty"`
	FullTitle   string         `json:"full_title"`
	Language    string         `json:"language,omitempty"`
	Released    string         `json:"release_date,omitempty"`
	Season      int            `json:"season,omitempty"`
	Episode     int            `json:"episode,omitempty"`
	EpisodeText string         `json:"episode_text,omitempty"`
	Categories  []categoryDTO  `json:"categories,omitempty"`
	Icon        *imageDTO      `json:"icon,omitempty"`
}

type categoryDTO struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

type guideDTO struct {
	Name          string `json:"name"`
	URL           string `json:"url,omitempty"`
	SourceName    string `json:"source_name,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
	GeneratorName string `json:"generator_name,omitempty"`
	GeneratorURL  string `json:"generator_url,omitempty"`
	ChannelCount  int    `json:"channel_count"`
	ProgramCount  int    `json:"program_count"`
}

// programResponse wraps a possibly-null program with its query instant.
type programResponse struct {
	ChannelID string      `json:"channel_id"`
	At        time.Time   `json:"at"`
	Program   *programDTO `json:"program"`
}

func channelToDTO(c *domain.Channel) channelDTO {
	dto := channelDTO{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: c.DisplayName(),
		Slug:        Slug(c.DisplayName()),
	}
	if c.Icon != nil {
		dto.Icon = &imageDTO{URL: c.Icon.URL, Width: c.Icon.Width, Height: c.Icon.Height}
	}
	return dto
}

func programToDTO(p *domain.Program) *programDTO {
	if p == nil {
		return nil
	}
	dto := &programDTO{
		ChannelID:   p.ChannelID,
		Start:       p.Start,
		End:         p.End,
		DurationSec: int(p.Duration().Seconds()),
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		FullTitle:   p.FullTitle(),
		Language:    p.Language,
	}
	if p.Released != nil {
		dto.Released = p.Released.String()
	}
	ep := p.Episode()
	dto.Season = ep.Season
	dto.Episode = ep.Episode
	dto.EpisodeText = ep.Onscreen()
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, categoryDTO{Name: c.Name, Language: c.Language})
	}
	if p.Icon != nil {
		dto.Icon = &imageDTO{URL: p.Icon.URL, Width: p.Icon.Width, Height: p.Icon.Height}
	}
	return dto
}

// Healthz reports process liveness
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status reports the guide service state
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.guideService.Status())
}

// Guide reports feed attribution and counts
func (h *Handler) Guide(w http.ResponseWriter, r *http.Request) {
	guide := h.guideService.Guide()
	if guide == nil {
		h.writeError(w, domain.ErrUnavailable)
		return
	}
	info := guide.Info()
	h.writeJSON(w, http.StatusOK, guideDTO{
		Name:          guide.Name(),
		URL:           guide.URL(),
		SourceName:    info.SourceName,
		SourceURL:     info.SourceURL,
		GeneratorName: info.GeneratorName,
		GeneratorURL:  info.GeneratorURL,
		ChannelCount:  len(guide.Channels()),
		ProgramCount:  len(guide.Programs()),
	})
}

// Channels lists all channels
func (h *Handler) Channels(w http.ResponseWriter, r *http.Request) {
	guide := h.guideService.Guide()
	if guide == nil {
		h.writeError(w, domain.ErrUnavailable)
		return
	}
	channels := guide.Channels()
	dtos := make([]channelDTO, 0, len(channels))
	for _, c := range channels {
		dtos = append(dtos, channelToDTO(c))
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// Channel returns one channel by id
func (h *Handler) Channel(w http.ResponseWriter, r *http.Request) {
	ch, err := h.lookupChannel(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, channelToDTO(ch))
}

// CurrentProgram returns what is airing on a channel now (with lookahead),
// or at an explicit ?at= RFC 3339 instant.
func (h *Handler) CurrentProgram(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	at := h.guideService.CurrentTime()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid at parameter, want RFC 3339"})
			return
		}
		at = parsed
	}

	p, err := h.guideService.GetProgramAt(channelID, at)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, programResponse{ChannelID: channelID, At: at, Program: programToDTO(p)})
}

// NextProgram returns the upcoming program on a channel
func (h *Handler) NextProgram(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")
	p, err := h.guideService.GetNextProgram(channelID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, programResponse{
		ChannelID: channelID,
		At:        h.guideService.CurrentTime(),
		Program:   programToDTO(p),
	})
}

// PrimetimeProgram returns the program airing at today's primetime
func (h *Handler) PrimetimeProgram(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")
	p, err := h.guideService.GetPrimetimeProgram(channelID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var at time.Time
	if p != nil {
		at = p.Start
	}
	h.writeJSON(w, http.StatusOK, programResponse{ChannelID: channelID, At: at, Program: programToDTO(p)})
}

func (h *Handler) lookupChannel(r *http.Request) (*domain.Channel, error) {
	guide := h.guideService.Guide()
	if guide == nil {
		return nil, domain.ErrUnavailable
	}
	ch := guide.GetChannel(r.PathValue("id"))
	if ch == nil {
		return nil, domain.ErrNotFound
	}
	return ch, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
