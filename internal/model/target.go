package model

import "strings"

// Target is a study goal tracked against a deadline. Records fetched from
// the backend carry a server-assigned "_id"; records created locally before
// the server responds carry only a client-generated "id". Key unifies the
// two.
type Target struct {
	PersistedID string   `json:"_id,omitempty"`
	LocalID     string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"` // YYYY-MM-DD, no time component
	Tags        []string `json:"tags"`
	Pinned      bool     `json:"isPinned"`
	Archived    bool     `json:"isArchived"`
	Logs        []Log    `json:"logs"`
}

// Key returns the canonical identifier, preferring the server-assigned one.
// All lookups and equality checks go through Key, never the raw fields.
func (t Target) Key() string {
	if t.PersistedID != "" {
		return t.PersistedID
	}
	return t.LocalID
}

// Clone returns a deep copy safe to mutate independently of the original.
func (t Target) Clone() Target {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	c.Logs = append([]Log(nil), t.Logs...)
	return c
}

// Log is one dated progress entry under a Target. The completed value is
// stored as free text; Units extracts the numeric part.
type Log struct {
	PersistedID string `json:"_id,omitempty"`
	LocalID     string `json:"id,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD
	Planned     string `json:"planned,omitempty"`
	Completed   string `json:"completed,omitempty"`
	Note        string `json:"note,omitempty"`
}

// Key returns the canonical log identifier, preferring the server-assigned one.
func (l Log) Key() string {
	if l.PersistedID != "" {
		return l.PersistedID
	}
	return l.LocalID
}

// Units parses the completed value as a leading integer, tolerating
// trailing text ("50 pages" reads as 50). The second return is false when
// no leading integer exists.
func (l Log) Units() (int, bool) {
	s := strings.TrimSpace(l.Completed)
	if s == "" {
		return 0, false
	}
	i := 0
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}
	n := 0
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// User is the profile attached to a session.
type User struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Age          string `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Place        string `json:"place,omitempty"`
	StudentClass string `json:"studentClass,omitempty"`
	CollegeName  string `json:"collegeName,omitempty"`
}

// TargetPatch is a partial field update. Pointer fields distinguish "leave
// unchanged" from "set to zero value".
type TargetPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Pinned      *bool     `json:"isPinned,omitempty"`
	Archived    *bool     `json:"isArchived,omitempty"`
}

// Apply merges the patch into a copy of the target and returns it.
func (p TargetPatch) Apply(t Target) Target {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Pinned != nil {
		out.Pinned = *p.Pinned
	}
	if p.Archived != nil {
		out.Archived = *p.Archived
	}
	return out
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup is the registration payload.
type Signup struct {
	Name         string `json:"name"`
	Age          string `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Place        string `json:"place,omitempty"`
	StudentClass string `json:"studentClass,omitempty"`
	CollegeName  string `json:"collegeName,omitempty"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empties.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
