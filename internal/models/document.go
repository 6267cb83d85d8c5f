package models

// ProfileDocument is the full profile payload maintained outside the
// accounting store, one JSON document per username.
type ProfileDocument struct {
	Username string        `json:"username"`
	Name     string        `json:"name,omitempty"`
	Bio      string        `json:"bio,omitempty"`
	Avatar   string        `json:"avatar,omitempty"`
	Location string        `json:"location,omitempty"`
	Tags     []string      `json:"tags,omitempty"`
	Links    []ProfileLink `json:"links,omitempty"`
	Socials  []Social      `json:"socials,omitempty"`
}

// ProfileLink is a single outbound link on a profile page
type ProfileLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon,omitempty"`
}

// Social is a social network handle on a profile page
type Social struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

// ProfileResponse is the merged record returned by the profile
// endpoint: the full document plus the lifetime view count and the
// freshly resolved location from the accounting record.
type ProfileResponse struct {
	ProfileDocument
	Views            int64     `json:"views"`
	ResolvedLocation *Location `json:"resolvedLocation,omitempty"`
}
