package twitter

import "encoding/json"

// User is a Twitter account decoded from the Streaming API, typically
// embedded in a Status.
//
// The profile_* set carries all seven fields original_source actually
// decodes (five colors plus background image URL and tile flag), a
// superset of spec.md's "six" shorthand.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	URL             string `json:"url"`
	Protected       bool   `json:"protected"`
	FollowersCount  int64  `json:"followers_count"`
	FriendsCount    int64  `json:"friends_count"`
	CreatedAt       string `json:"created_at"`
	FavouritesCount int64  `json:"favourites_count"`
	UtcOffset       *int64 `json:"utc_offset"`
	TimeZone        string `json:"time_zone"`
	Following       bool   `json:"following"`
	Notifications   bool   `json:"notifications"`
	StatusesCount   int64  `json:"statuses_count"`
	Verified        bool   `json:"verified"`
	GeoEnabled      bool   `json:"geo_enabled"`

	ProfileBackgroundColor       string `json:"profile_background_color"`
	ProfileTextColor             string `json:"profile_text_color"`
	ProfileLinkColor             string `json:"profile_link_color"`
	ProfileSidebarFillColor      string `json:"profile_sidebar_fill_color"`
	ProfileSidebarBorderColor    string `json:"profile_sidebar_border_color"`
	ProfileBackgroundImageURL    string `json:"profile_background_image_url"`
	ProfileBackgroundTile        bool   `json:"profile_background_tile"`

	Status *Status `json:"status"`

	Raw map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes a User and retains the raw input map.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	if err := json.Unmarshal(data, (*alias)(u)); err != nil {
		return err
	}
	u.Raw = rawCopy(data)
	return nil
}
