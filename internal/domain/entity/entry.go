// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// JournalEntry is the single persistent record of the system. The owner is
// stamped once at creation from the authenticated caller and never accepted
// from client input afterwards.
type JournalEntry struct {
	ID                 string         `json:"id" firestore:"-"`
	UserID             string         `json:"userId" firestore:"userId"`
	UserEmail          string         `json:"userEmail,omitempty" firestore:"userEmail,omitempty"`
	Title              string         `json:"title" firestore:"title"`
	Content            any            `json:"content" firestore:"content"`
	VoiceTranscription *string        `json:"voiceTranscription" firestore:"voiceTranscription"`
	EmotionalAnalysis  map[string]any `json:"emotionalAnalysis" firestore:"emotionalAnalysis"`
	AIInsights         map[string]any `json:"aiInsights" firestore:"aiInsights"`
	SynchronicityTags  []string       `json:"synchronicityTags" firestore:"synchronicityTags"`
	ShadowWorkPrompts  []string       `json:"shadowWorkPrompts" firestore:"shadowWorkPrompts"`
	Mood               string         `json:"mood,omitempty" firestore:"mood,omitempty"`
	Themes             []string       `json:"themes" firestore:"themes"`
	Triggers           []string       `json:"triggers" firestore:"triggers"`
	CreatedAt          time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

// Normalize fills the collection-typed fields so a freshly created entry is
// stored with empty collections rather than nulls, matching what readers expect.
func (e *JournalEntry) Normalize() {
	if e.EmotionalAnalysis == nil {
		e.EmotionalAnalysis = map[string]any{}
	}
	if e.AIInsights == nil {
		e.AIInsights = map[string]any{}
	}
	if e.SynchronicityTags == nil {
		e.SynchronicityTags = []string{}
	}
	if e.ShadowWorkPrompts == nil {
		e.ShadowWorkPrompts = []string{}
	}
	if e.Themes == nil {
		e.Themes = []string{}
	}
	if e.Triggers == nil {
		e.Triggers = []string{}
	}
}

// OwnedBy reports whether the entry belongs to the given user.
func (e *JournalEntry) OwnedBy(userID string) bool {
	return e.UserID == userID
}

// protectedFields are identity and bookkeeping fields a partial update may
// never touch.
var protectedFields = map[string]struct{}{
	"id":        {},
	"userId":    {},
	"userEmail": {},
	"createdAt": {},
	"updatedAt": {},
}

// ProtectedField reports whether a field must be dropped from caller-supplied
// update data.
func ProtectedField(name string) bool {
	_, ok := protectedFields[name]

	return ok
}
