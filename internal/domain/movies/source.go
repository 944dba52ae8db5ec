package movies

import "regexp"

type SourceKind string

const (
	SourceYouTube SourceKind = "youtube"
	SourceDrive   SourceKind = "drive"
	SourceDirect  SourceKind = "direct"
)

// Source is what the player needs to render a movie.
type Source struct {
	Kind     SourceKind `json:"kind"`
	URL      string     `json:"url"`
	EmbedURL string     `json:"embed_url,omitempty"`
}

var (
	youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	driveID   = regexp.MustCompile(`drive\.google\.com/(?:file/d/|open\?id=)([a-zA-Z0-9_-]+)`)
)

func YouTubeID(url string) string {
	if m := youtubeID.FindStringSubmatch(url); len(m) == 2 {
		return m[1]
	}
	return ""
}

func DriveFileID(url string) string {
	if m := driveID.FindStringSubmatch(url); len(m) == 2 {
		return m[1]
	}
	return ""
}

// PlayableSource prefers the full video and falls back to the trailer.
// ok is false when the movie has neither.
func (m Movie) PlayableSource() (Source, bool) {
	url := ""
	if m.VideoURL != nil && *m.VideoURL != "" {
		url = *m.VideoURL
	} else if m.TrailerURL != nil && *m.TrailerURL != "" {
		url = *m.TrailerURL
	}
	if url == "" {
		return Source{}, false
	}

	if id := DriveFileID(url); id != "" {
		return Source{Kind: SourceDrive, URL: url, EmbedURL: "https://drive.google.com/file/d/" + id + "/preview"}, true
	}
	if id := YouTubeID(url); id != "" {
		return Source{Kind: SourceYouTube, URL: url, EmbedURL: "https://www.youtube.com/embed/" + id + "?autoplay=1"}, true
	}
	return Source{Kind: SourceDirect, URL: url}, true
}
