package domain

import (
	"testing"
	"time"
)

// TestNewGuide_CrossLinking tests that construction links both directions
func TestNewGuide_CrossLinking(t *testing.T) {
	base := time.Date(2023, 9, 17, 20, 0, 0, 0, time.UTC)
	ch := mustChannel(t, "ch1", "Channel One")
	p1 := mustProgram(t, "ch1", base, base.Add(time.Hour), "First")
	p2 := mustProgram(t, "ch1", base.Add(time.Hour), base.Add(2*time.Hour), "Second")

	g := NewGuide(GuideInfo{}, []*Channel{ch}, []*Program{p2, p1})

	if got := g.GetChannel("ch1"); got != ch {
		t.Fatalf("GetChannel = %v, want the declared channel", got)
	}
	if p1.Channel() != ch || p2.Channel() != ch {
		t.Error("programs not back-linked to their channel")
	}

	progs := ch.Programs()
	if len(progs) != 2 {
		t.Fatalf("channel has %d programs, want 2", len(progs))
	}
	if progs[0].Title != "First" || progs[1].Title != "Second" {
		t.Errorf("schedule not sorted by start: [%s, %s]", progs[0].Title, progs[1].Title)
	}
}

// TestNewGuide_DuplicateChannels tests that the first occurrence of an id wins
func TestNewGuide_DuplicateChannels(t *testing.T) {
	first := mustChannel(t, "ch1", "First Declaration")
	second := mustChannel(t, "ch1", "Second Declaration")
	base := time.Date(2023, 9, 17, 20, 0, 0, 0, time.UTC)
	p := mustProgram(t, "ch1", base, base.Add(time.Hour), "Show")

	g := NewGuide(GuideInfo{}, []*Channel{first, second}, []*Program{p})

	if got := len(g.Channels()); got != 1 {
		t.Fatalf("guide has %d channels, want 1", got)
	}
	if g.GetChannel("ch1") != first {
		t.Error("duplicate resolution should keep the first occurrence")
	}
	if p.Channel() != first {
		t.Error("program linked to the dropped duplicate")
	}
	if len(second.Programs()) != 0 {
		t.Error("dropped duplicate received programs")
	}
}

// TestNewGuide_UnknownChannelProgram tests programs referencing undeclared channels
func TestNewGuide_UnknownChannelProgram(t *testing.T) {
	base := time.Date(2023, 9, 17, 20, 0, 0, 0, time.UTC)
	ch := mustChannel(t, "ch1", "Channel One")
	orphan := mustProgram(t, "ghost", base, base.Add(time.Hour), "Orphan")

	g := NewGuide(GuideInfo{}, []*Channel{ch}, []*Program{orphan})

	if got := len(g.Programs()); got != 1 {
		t.Fatalf("guide has %d programs, want 1", got)
	}
	if orphan.Channel() != nil {
		t.Error("orphan program should stay unlinked")
	}
	if len(ch.Programs()) != 0 {
		t.Error("orphan program attached to an unrelated channel")
	}
}

// TestGuide_Lookups tests channel lookup and collection copies
func TestGuide_Lookups(t *testing.T) {
	a := mustChannel(t, "a", "Alpha")
	b := mustChannel(t, "b", "Beta")
	g := NewGuide(GuideInfo{}, []*Channel{a, b}, nil)

	if g.GetChannel("b") != b {
		t.Error("GetChannel(b) returned wrong channel")
	}
	if g.GetChannel("missing") != nil {
		t.Error("GetChannel(missing) should be nil")
	}

	chans := g.Channels()
	if len(chans) != 2 || chans[0] != a || chans[1] != b {
		t.Errorf("Channels() order wrong: %v", chans)
	}
	chans[0] = nil
	if g.Channels()[0] != a {
		t.Error("mutating the returned slice disturbed the guide")
	}
}

// TestGuide_Attribution tests the generator-over-source fallback chain
func TestGuide_Attribution(t *testing.T) {
	tests := []struct {
		name     string
		info     GuideInfo
		wantName string
		wantURL  string
	}{
		{
			"GeneratorWins",
			GuideInfo{SourceName: "src", SourceURL: "http://src", GeneratorName: "gen", GeneratorURL: "http://gen"},
			"gen", "http://gen",
		},
		{
			"SourceFallback",
			GuideInfo{SourceName: "src", SourceURL: "http://src"},
			"src", "http://src",
		},
		{
			"MixedFallback",
			GuideInfo{SourceName: "src", GeneratorURL: "http://gen"},
			"src", "http://gen",
		},
		{"Empty", GuideInfo{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuide(tt.info, nil, nil)
			if got := g.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := g.URL(); got != tt.wantURL {
				t.Errorf("URL() = %q, want %q", got, tt.wantURL)
			}
			if g.Info() != tt.info {
				t.Errorf("Info() = %+v, want %+v", g.Info(), tt.info)
			}
		})
	}
}
