// Package editor owns one composition session: a document, a caret, and
// the in-flight mention suggestion search. All mutation happens
// synchronously on the caller's goroutine; the only asynchronous piece
// is the username search, which follows last-keystroke-wins.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/gratia-app/backend/internal/directory"
	"github.com/gratia-app/backend/internal/richtext"
)

// DefaultSuggestionLimit caps mention suggestion results per query.
const DefaultSuggestionLimit = 8

// Suggestions is one delivery of username suggestions for an active
// trigger. Trigger is the state the search was issued for.
type Suggestions struct {
	Trigger   richtext.TriggerState
	Usernames []string
	Err       error
}

// Session is a single composition session. It exclusively owns its
// Document for the session's lifetime; methods are safe for the
// UI-event-loop pattern of one writer plus async suggestion callbacks.
type Session struct {
	mu    sync.Mutex
	doc   richtext.Document
	caret int

	dir   directory.Directory
	limit int

	// Suggestion generation counter. Every mutation bumps it and cancels
	// the previous search; a search result is delivered only if its
	// generation is still current, so stale results are discarded rather
	// than queued.
	gen    uint64
	cancel context.CancelFunc
}

// NewSession starts an empty session backed by dir for suggestions.
func NewSession(dir directory.Directory) *Session {
	return &Session{
		doc:   richtext.NewDocument(),
		dir:   dir,
		limit: DefaultSuggestionLimit,
	}
}

// NewSessionFromText resumes composition over persisted plain text,
// reconstructing mention tokens for usernames valid at load time.
func NewSessionFromText(text string, validUsernames map[string]bool, dir directory.Directory) *Session {
	doc := richtext.ParseDocument(text, validUsernames)
	return &Session{
		doc:   doc,
		caret: doc.Len(),
		dir:   dir,
		limit: DefaultSuggestionLimit,
	}
}

// Document returns the current document.
func (s *Session) Document() richtext.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// PlainText returns the logical plain text, the storage form.
func (s *Session) PlainText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.PlainText()
}

// Caret returns the caret's logical offset.
func (s *Session) Caret() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caret
}

// SetCaret moves the caret. Offsets inside a mention token snap to the
// token end via the structural mapping.
func (s *Session) SetCaret(offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.doc.StructuralPosition(offset)
	if err != nil {
		return err
	}
	snapped, err := s.doc.LogicalOffset(pos)
	if err != nil {
		return err
	}
	s.caret = snapped
	s.bumpLocked()
	return nil
}

// InsertText types text at the caret.
func (s *Session) InsertText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := richtext.InsertText(s.doc, s.caret, text)
	if err != nil {
		return err
	}
	s.doc = doc
	s.caret += len([]rune(text))
	s.bumpLocked()
	return nil
}

// DeleteRange removes a logical span, expanding over any partially
// covered mention token. The caret lands at the span start.
func (s *Session) DeleteRange(span richtext.LogicalSpan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, deleted, err := richtext.DeleteRange(s.doc, span)
	if err != nil {
		return err
	}
	s.doc = doc
	s.caret = deleted.Start
	s.bumpLocked()
	return nil
}

// Trigger re-detects the mention trigger at the current caret.
func (s *Session) Trigger() richtext.TriggerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggerLocked()
}

func (s *Session) triggerLocked() richtext.TriggerState {
	state, err := richtext.DetectTrigger(s.doc, s.caret)
	if err != nil {
		// A stale caret must never block typing; the suggestion popup
		// simply stays closed.
		return richtext.NoTrigger
	}
	return state
}

// AcceptSuggestion resolves the active trigger into a mention token for
// username. Detection is re-run first: if the trigger closed since the
// suggestion was displayed, the insertion is aborted instead of
// corrupting the document.
func (s *Session) AcceptSuggestion(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trigger := s.triggerLocked()
	if !trigger.Active {
		return fmt.Errorf("editor: no active mention trigger")
	}

	span := richtext.LogicalSpan{Start: trigger.QueryStart, End: s.caret}
	doc, caret, err := richtext.InsertMention(s.doc, span, username)
	if err != nil {
		return err
	}
	s.doc = doc
	s.caret = caret
	s.bumpLocked()
	return nil
}

// RequestSuggestions kicks off an asynchronous username search for the
// active trigger and delivers the result to deliver, on a separate
// goroutine. If the trigger is inactive the outstanding search is
// cancelled and nothing is delivered. A newer keystroke invalidates the
// search: its result is dropped, not queued.
func (s *Session) RequestSuggestions(ctx context.Context, deliver func(Suggestions)) {
	s.mu.Lock()
	trigger := s.triggerLocked()
	if !trigger.Active {
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	searchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	gen := s.gen
	dir, limit := s.dir, s.limit
	s.mu.Unlock()

	go func() {
		names, err := dir.Search(searchCtx, trigger.Query, limit)

		s.mu.Lock()
		current := s.gen == gen
		s.mu.Unlock()
		if !current || searchCtx.Err() != nil {
			return
		}
		deliver(Suggestions{Trigger: trigger, Usernames: names, Err: err})
	}()
}

// bumpLocked invalidates any in-flight suggestion search. Callers hold mu.
func (s *Session) bumpLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
