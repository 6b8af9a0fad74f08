package goquery

import (
	"bytes"
	"encoding/json"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/xhsnote"
	"github.com/microcosm-cc/bluemonday"
)

// stateMarkers are the global assignments that carry server-rendered note state.
var stateMarkers = []string{
	"window.__INITIAL_STATE__",
	"window.__INITIAL_SSR_STATE__",
}

// undefinedRe matches a JavaScript undefined in value position: after a
// colon, an opening bracket or a comma.
var undefinedRe = regexp.MustCompile(`([:\[,]\s*)undefined\b`)

// textPolicy strips any markup from embedded text fields.
var textPolicy = bluemonday.StrictPolicy()

// flexString decodes JSON strings and numbers into a string.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		*s = flexString(b)
	}
	return nil
}

type initialState struct {
	Note struct {
		FirstNoteID   string `json:"firstNoteId"`
		NoteDetailMap map[string]struct {
			Note *noteState `json:"note"`
		} `json:"noteDetailMap"`
	} `json:"note"`
	NoteData struct {
		Data struct {
			NoteData *noteState `json:"noteData"`
		} `json:"data"`
	} `json:"noteData"`
}

type noteState struct {
	NoteID  string `json:"noteId"`
	Title   string `json:"title"`
	Desc    string `json:"desc"`
	TagList []struct {
		Name string `json:"name"`
	} `json:"tagList"`
	InteractInfo struct {
		LikedCount     flexString `json:"likedCount"`
		CommentCount   flexString `json:"commentCount"`
		CollectedCount flexString `json:"collectedCount"`
	} `json:"interactInfo"`
	ImageList []struct {
		URLDefault string `json:"urlDefault"`
		URL        string `json:"url"`
		InfoList   []struct {
			URL string `json:"url"`
		} `json:"infoList"`
	} `json:"imageList"`
}

// ExtractEmbedded decodes the note state the page embeds as a script
// assignment. It returns nil when no state script is present or it cannot
// be decoded.
func ExtractEmbedded(p *Page) *xhsnote.Record {
	payload := statePayload(p.Doc)
	if payload == "" {
		return nil
	}

	payload = undefinedRe.ReplaceAllString(payload, "${1}null")

	var state initialState
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(&state); err != nil {
		return nil
	}

	note := pickNote(&state)
	if note == nil {
		return nil
	}

	rec := &xhsnote.Record{
		Title:   cleanText(note.Title),
		Content: cleanText(note.Desc),
		InteractionInfo: xhsnote.Interaction{
			Likes:    strings.TrimSpace(string(note.InteractInfo.LikedCount)),
			Comments: strings.TrimSpace(string(note.InteractInfo.CommentCount)),
			Collects: strings.TrimSpace(string(note.InteractInfo.CollectedCount)),
		},
	}
	if note.NoteID != "" {
		rec.URL = "https://www.xiaohongshu.com/explore/" + note.NoteID
	}
	for _, tag := range note.TagList {
		if t := asHashtag(tag.Name); t != "" {
			rec.Hashtags = append(rec.Hashtags, t)
		}
	}
	for _, img := range note.ImageList {
		u := img.URLDefault
		if u == "" {
			u = img.URL
		}
		if u == "" && len(img.InfoList) > 0 {
			u = img.InfoList[0].URL
		}
		if u = normalizeImageURL(u); u != "" {
			rec.Images = append(rec.Images, u)
		}
	}
	return rec
}

// statePayload returns the text after the first state assignment.
func statePayload(doc *goquery.Document) string {
	var payload string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		for _, marker := range stateMarkers {
			i := strings.Index(text, marker)
			if i < 0 {
				continue
			}
			rest := text[i+len(marker):]
			eq := strings.Index(rest, "=")
			if eq < 0 {
				continue
			}
			payload = strings.TrimSpace(rest[eq+1:])
			return false
		}
		return true
	})
	return payload
}

// pickNote selects the note from the desktop or mobile state shape. With
// several detail entries the first note id wins, then the lowest key so
// the choice is deterministic.
func pickNote(state *initialState) *noteState {
	details := state.Note.NoteDetailMap
	if d, ok := details[state.Note.FirstNoteID]; ok && d.Note.populated() {
		return d.Note
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if n := details[k].Note; n.populated() {
			return n
		}
	}
	if n := state.NoteData.Data.NoteData; n.populated() {
		return n
	}
	return nil
}

// populated reports whether n is a real note rather than a placeholder.
func (n *noteState) populated() bool {
	return n != nil && (n.NoteID != "" || n.Title != "" || n.Desc != "")
}

// cleanText removes markup and decodes entities.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
