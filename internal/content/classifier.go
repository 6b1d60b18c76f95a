package content

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the renderable type of a response payload.
type Kind string

const (
	KindVoiceNote   Kind = "VOICE_NOTE"
	KindImage       Kind = "IMAGE"
	KindAttachment  Kind = "ATTACHMENT"
	KindPath        Kind = "PATH"
	KindSinglePoint Kind = "SINGLE_POINT"
	KindPlainText   Kind = "PLAIN_TEXT"
)

// Point is a latitude/longitude pair. Values are kept as the raw
// tokens the agent sent; they are checked to look numeric but are
// never range-validated, matching the agent's behavior.
type Point struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Descriptor is the typed classification of a response payload.
// Exactly one kind applies; the populated fields depend on it.
type Descriptor struct {
	Kind   Kind    `json:"kind"`
	URL    string  `json:"url,omitempty"`
	Point  *Point  `json:"point,omitempty"`
	Points []Point `json:"points,omitempty"`
	Text   string  `json:"text,omitempty"`
}

const (
	// pathMarker introduces a multi-point location timeline payload.
	pathMarker = "Path:"
	// pathPairSep separates coordinate pairs inside a path payload.
	pathPairSep = "|"
)

// coordPattern extracts the q=<lat>,<lng> parameter of a map link.
var coordPattern = regexp.MustCompile(`q=([-+]?[0-9]+(?:\.[0-9]+)?),([-+]?[0-9]+(?:\.[0-9]+)?)`)

// Classifier maps raw response strings to typed descriptors. It is
// pure and total: any input, including the empty string, classifies.
type Classifier struct {
	attachmentHost string
}

// NewClassifier returns a classifier bound to the attachment host the
// agent uploads media to. The host comes from configuration, not from
// the matching logic.
func NewClassifier(attachmentHost string) *Classifier {
	return &Classifier{attachmentHost: attachmentHost}
}

// Classify resolves raw to exactly one descriptor. Checks run in a
// fixed precedence order because later patterns are broader supersets:
// voice note, image, generic attachment, path, single point, plain
// text. A payload that fails every pattern falls back to plain text
// with the original string untouched.
func (c *Classifier) Classify(raw string) Descriptor {
	if u, ok := c.attachmentURL(raw); ok {
		lowerPath := strings.ToLower(u.Path)
		name := strings.ToLower(fileName(u.Path))

		if isRecording(lowerPath, name) && strings.HasSuffix(name, ".mp3") {
			return Descriptor{Kind: KindVoiceNote, URL: raw}
		}
		if isImage(lowerPath, name) {
			return Descriptor{Kind: KindImage, URL: raw}
		}
		return Descriptor{Kind: KindAttachment, URL: raw}
	}

	if points, ok := parsePath(raw); ok {
		return Descriptor{Kind: KindPath, Points: points}
	}

	if m := coordPattern.FindStringSubmatch(raw); m != nil {
		return Descriptor{Kind: KindSinglePoint, Point: &Point{Lat: m[1], Lng: m[2]}}
	}

	return Descriptor{Kind: KindPlainText, Text: raw}
}

// attachmentURL parses raw and reports whether it is an http(s) URL
// on the known attachment host.
func (c *Classifier) attachmentURL(raw string) (*url.URL, bool) {
	if c.attachmentHost == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if !strings.EqualFold(u.Hostname(), c.attachmentHost) {
		return nil, false
	}
	return u, true
}

func isRecording(lowerPath, name string) bool {
	return strings.Contains(lowerPath, "recording") || strings.HasPrefix(name, "rec_")
}

func isImage(lowerPath, name string) bool {
	if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") && !strings.HasSuffix(name, ".png") {
		return false
	}
	for _, hint := range []string{"photo", "selfie", "image", "img_"} {
		if strings.Contains(lowerPath, hint) {
			return true
		}
	}
	return false
}

// parsePath extracts the coordinate pairs of a "Path:" payload.
// Malformed pairs are filtered out rather than failing the parse;
// fewer than two surviving pairs means no path match at all, so the
// payload falls through to the later checks.
func parsePath(raw string) ([]Point, bool) {
	idx := strings.Index(raw, pathMarker)
	if idx < 0 {
		return nil, false
	}

	var points []Point
	for _, pair := range strings.Split(raw[idx+len(pathMarker):], pathPairSep) {
		tokens := strings.Split(pair, ",")
		if len(tokens) != 2 {
			continue
		}
		lat := strings.TrimSpace(tokens[0])
		lng := strings.TrimSpace(tokens[1])
		if !looksNumeric(lat) || !looksNumeric(lng) {
			continue
		}
		points = append(points, Point{Lat: lat, Lng: lng})
	}

	if len(points) < 2 {
		return nil, false
	}
	return points, true
}

// looksNumeric accepts anything ParseFloat accepts. Range checks are
// deliberately absent: out-of-range coordinates pass through as-is.
func looksNumeric(token string) bool {
	if token == "" {
		return false
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

func fileName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
