package twitter

import "encoding/json"

// Status is a Twitter status (tweet) decoded from the Streaming API.
//
// Fields mirror the classic v1.1 status object; unknown keys are not
// lifted onto named attributes but remain reachable through Raw.
type Status struct {
	CreatedAt           string `json:"created_at"`
	ID                  int64  `json:"id"`
	Text                string `json:"text"`
	Source              string `json:"source"`
	Truncated           bool   `json:"truncated"`
	InReplyToStatusID   *int64 `json:"in_reply_to_status_id"`
	InReplyToScreenName string `json:"in_reply_to_screen_name"`
	InReplyToUserID     *int64 `json:"in_reply_to_user_id"`
	Favorited           bool   `json:"favorited"`
	UserID              int64  `json:"user_id"`
	Geo                 interface{} `json:"geo"`

	Entities        *Entities `json:"entities"`
	RetweetedStatus *Status   `json:"retweeted_status"`
	User            *User     `json:"user"`

	Raw map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes a Status and retains the raw input map, satisfying
// the invariant that decode(J).Raw == J for any Status JSON object J.
func (s *Status) UnmarshalJSON(data []byte) error {
	type alias Status
	if err := json.Unmarshal(data, (*alias)(s)); err != nil {
		return err
	}
	s.Raw = rawCopy(data)
	return nil
}
