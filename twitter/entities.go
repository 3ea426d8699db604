package twitter

import "encoding/json"

// rawCopy unmarshals data a second time into a map so entities can retain
// access to keys that have no named attribute.
func rawCopy(data []byte) map[string]interface{} {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}

// Indices is the two-element [start, end] character offset pair Twitter
// attaches to most entity references.
// https://developer.twitter.com/en/docs/twitter-api/v1/data-dictionary/object-model/entities
type Indices struct {
	Start *int64 `json:"-"`
	End   *int64 `json:"-"`
	Raw   map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes the two-element array form. Malformed input (wrong
// arity, non-numeric elements) is tolerated: a warning is logged and Start
// and End are left nil rather than failing the surrounding datagram.
func (i *Indices) UnmarshalJSON(data []byte) error {
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		defaultLogger().Warnf("twitter: malformed indices %s: %v", data, err)
		return nil
	}
	if len(pair) != 2 {
		defaultLogger().Warnf("twitter: malformed indices %s: want 2 elements, got %d", data, len(pair))
		return nil
	}
	i.Start = &pair[0]
	i.End = &pair[1]
	return nil
}

// Size describes one rendering of a Media entity.
type Size struct {
	W      int    `json:"w"`
	H      int    `json:"h"`
	Resize string `json:"resize"`
}

// Sizes lists the available renderings of a Media entity.
type Sizes struct {
	Large  Size `json:"large"`
	Medium Size `json:"medium"`
	Small  Size `json:"small"`
	Thumb  Size `json:"thumb"`
}

// Media is an image or video attached to a Status and surfaced through its
// Entities.
type Media struct {
	ID              int64   `json:"id"`
	MediaURL        string  `json:"media_url"`
	MediaURLHTTPS   string  `json:"media_url_https"`
	URL             string  `json:"url"`
	DisplayURL      string  `json:"display_url"`
	ExpandedURL     string  `json:"expanded_url"`
	Type            string  `json:"type"`
	Indices         Indices `json:"indices"`
	Sizes           Sizes   `json:"sizes"`
	Raw             map[string]interface{} `json:"-"`
}

// URL is a link entity parsed out of Status or User text.
type URL struct {
	URL         string  `json:"url"`
	DisplayURL  string  `json:"display_url"`
	ExpandedURL string  `json:"expanded_url"`
	Indices     Indices `json:"indices"`
	Raw         map[string]interface{} `json:"-"`
}

// UserMention is an @mention entity.
type UserMention struct {
	ID         int64   `json:"id"`
	ScreenName string  `json:"screen_name"`
	Name       string  `json:"name"`
	Indices    Indices `json:"indices"`
	Raw        map[string]interface{} `json:"-"`
}

// HashTag is a #hashtag entity.
type HashTag struct {
	Text    string  `json:"text"`
	Indices Indices `json:"indices"`
	Raw     map[string]interface{} `json:"-"`
}

// Entities groups the list-attribute entities parsed from a Status.
type Entities struct {
	Media        []Media       `json:"media"`
	Urls         []URL         `json:"urls"`
	UserMentions []UserMention `json:"user_mentions"`
	HashTags     []HashTag     `json:"hashtags"`
	Raw          map[string]interface{} `json:"-"`
}

// Each entity type below follows the same pattern: a standard struct-tag
// unmarshal handles simple/complex/list attribute materialization, then a
// second pass captures the full input map so unknown keys remain reachable
// via Raw. See DESIGN.md for why this replaces the source's reflective
// fromDict schema table.

// UnmarshalJSON decodes an Entities object and retains the raw input map.
func (e *Entities) UnmarshalJSON(data []byte) error {
	type alias Entities
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}
	e.Raw = rawCopy(data)
	return nil
}

// UnmarshalJSON decodes a Media object and retains the raw input map.
func (m *Media) UnmarshalJSON(data []byte) error {
	type alias Media
	if err := json.Unmarshal(data, (*alias)(m)); err != nil {
		return err
	}
	m.Raw = rawCopy(data)
	return nil
}

// UnmarshalJSON decodes a URL object and retains the raw input map.
func (u *URL) UnmarshalJSON(data []byte) error {
	type alias URL
	if err := json.Unmarshal(data, (*alias)(u)); err != nil {
		return err
	}
	u.Raw = rawCopy(data)
	return nil
}

// UnmarshalJSON decodes a UserMention object and retains the raw input map.
func (m *UserMention) UnmarshalJSON(data []byte) error {
	type alias UserMention
	if err := json.Unmarshal(data, (*alias)(m)); err != nil {
		return err
	}
	m.Raw = rawCopy(data)
	return nil
}

// UnmarshalJSON decodes a HashTag object and retains the raw input map.
func (h *HashTag) UnmarshalJSON(data []byte) error {
	type alias HashTag
	if err := json.Unmarshal(data, (*alias)(h)); err != nil {
		return err
	}
	h.Raw = rawCopy(data)
	return nil
}
