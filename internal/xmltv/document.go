// Package xmltv decodes XMLTV guide documents into the domain model.
//
// Decoding is tolerant at the item level: a malformed channel, programme,
// episode number or category is dropped with its siblings left intact. Only
// a document that is not XMLTV at all (wrong root element, broken XML) is a
// hard error.
package xmltv

import "encoding/xml"

// tvDocument mirrors the <tv> root element and the attribution attributes
// the DTD defines on it.
type tvDocument struct {
	XMLName           xml.Name       `xml:"tv"`
	SourceInfoName    string         `xml:"source-info-name,attr"`
	SourceInfoURL     string         `xml:"source-info-url,attr"`
	GeneratorInfoName string         `xml:"generator-info-name,attr"`
	GeneratorInfoURL  string         `xml:"generator-info-url,attr"`
	Channels          []channelElem  `xml:"channel"`
	Programmes        []programElem  `xml:"programme"`
}

type channelElem struct {
	ID          string    `xml:"id,attr"`
	DisplayName string    `xml:"display-name"`
	Icon        *iconElem `xml:"icon"`
}

type programElem struct {
	Channel     string        `xml:"channel,attr"`
	Start       string        `xml:"start,attr"`
	Stop        string        `xml:"stop,attr"`
	Title       *titleElem    `xml:"title"`
	Subtitle    string        `xml:"sub-title"`
	Description string        `xml:"desc"`
	Date        string        `xml:"date"`
	Language    string        `xml:"language"`
	EpisodeNums []episodeElem `xml:"episode-num"`
	Categories  []categoryElem `xml:"category"`
	Icon        *iconElem     `xml:"icon"`
}

// titleElem is a pointer target so a missing <title> can be told apart from
// a present but blank one.
type titleElem struct {
	Value string `xml:",chardata"`
}

type iconElem struct {
	Src    string `xml:"src,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

type episodeElem struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

type categoryElem struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}
