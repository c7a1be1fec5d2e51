package models

import "time"

// MaxSelectableCandidates is the number of candidate buttons a category prompt can show.
const MaxSelectableCandidates = 5

// Candidate is one option within a category
type Candidate struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
	Emoji string `json:"emoji" bson:"emoji"`
}

// Category is one award users vote on
type Category struct {
	ID          string      `json:"id" bson:"id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Candidates  []Candidate `json:"candidates" bson:"candidates"`
}

// Selectable returns the candidates that can be picked from a prompt.
func (c Category) Selectable() []Candidate {
	if len(c.Candidates) > MaxSelectableCandidates {
		return c.Candidates[:MaxSelectableCandidates]
	}
	return c.Candidates
}

// HasSelectable reports whether value is one of the selectable candidates.
func (c Category) HasSelectable(value string) bool {
	for _, cand := range c.Selectable() {
		if cand.Value == value {
			return true
		}
	}
	return false
}

// Candidate returns the candidate with the given value.
func (c Category) Candidate(value string) (Candidate, bool) {
	for _, cand := range c.Candidates {
		if cand.Value == value {
			return cand, true
		}
	}
	return Candidate{}, false
}

// Colors are the hex colors used by embeds and reports
type Colors struct {
	Primary    string `json:"primary" bson:"primary"`
	Secondary  string `json:"secondary" bson:"secondary"`
	Success    string `json:"success" bson:"success"`
	Error      string `json:"error" bson:"error"`
	Background string `json:"background" bson:"background"`
}

// AwardConfig is the event configuration shared by the bot and the dashboard
type AwardConfig struct {
	AdminIDs  []string   `json:"adminIds" bson:"adminIds"`
	Awards    []Category `json:"awards" bson:"awards"`
	Colors    Colors     `json:"colors" bson:"colors"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Category looks up a category by id.
func (c *AwardConfig) Category(id string) (Category, bool) {
	for _, cat := range c.Awards {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Clone returns a deep copy so callers can't mutate a cached config.
func (c *AwardConfig) Clone() *AwardConfig {
	if c == nil {
		return nil
	}
	out := &AwardConfig{
		AdminIDs:  append([]string(nil), c.AdminIDs...),
		Awards:    make([]Category, len(c.Awards)),
		Colors:    c.Colors,
		UpdatedAt: c.UpdatedAt,
	}
	for i, cat := range c.Awards {
		cat.Candidates = append([]Candidate(nil), cat.Candidates...)
		out.Awards[i] = cat
	}
	return out
}

// Vote is a user's finalized ballot. One per user.
type Vote struct {
	UserID           string            `json:"userId" bson:"userId"`
	Username         string            `json:"username" bson:"username"`
	RobloxUser       string            `json:"robloxUser" bson:"robloxUser"`
	DiscordAvatarURL string            `json:"discordAvatarUrl" bson:"discordAvatarUrl"`
	RobloxAvatarURL  string            `json:"robloxAvatarUrl" bson:"robloxAvatarUrl"`
	RobloxID         string            `json:"robloxId,omitempty" bson:"robloxId,omitempty"`
	Selections       map[string]string `json:"votes" bson:"votes"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// User identifies the Discord user behind an interaction or API call
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar,omitempty"`
}
