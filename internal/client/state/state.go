// Package state holds the client's view state as an explicit container with
// a pure reducer. Every mutation flows through Reduce as a typed action, so
// transitions can be tested without any I/O.
package state

import "github.com/janisto/profilehub/internal/client/api"

// State is the complete client view state. Zero value is the initial state.
type State struct {
	Profile  *api.Profile
	Profiles []api.Profile
	Loading  bool
	Error    string
	Success  string
}

// Action is a state transition. Implementations are the only way to change
// a State.
type Action interface {
	isAction()
}

// Pending marks the start of an operation. Mutating operations also reset
// the previous success message.
type Pending struct {
	ResetSuccess bool
}

// SaveDone records a completed create-or-update.
type SaveDone struct {
	Profile api.Profile
	Message string
}

// SaveFailed records a failed create-or-update.
type SaveFailed struct{ Err string }

// FetchOneDone records a fetched profile.
type FetchOneDone struct{ Profile api.Profile }

// FetchOneFailed records a failed single-profile fetch.
type FetchOneFailed struct{ Err string }

// FetchAllDone records a fetched profile list.
type FetchAllDone struct{ Profiles []api.Profile }

// FetchAllFailed records a failed list fetch.
type FetchAllFailed struct{ Err string }

// DeleteDone records a completed delete.
type DeleteDone struct {
	Email   string
	Message string
}

// DeleteFailed records a failed delete.
type DeleteFailed struct{ Err string }

// ClearError dismisses the current error message.
type ClearError struct{}

// ClearSuccess dismisses the current success message.
type ClearSuccess struct{}

// ClearProfile resets the selected profile and any transient messages.
type ClearProfile struct{}

// SetProfile selects a profile without any I/O.
type SetProfile struct{ Profile api.Profile }

// SetMessage records an informational message, such as cache provenance.
type SetMessage struct{ Message string }

func (Pending) isAction()        {}
func (SaveDone) isAction()       {}
func (SaveFailed) isAction()     {}
func (FetchOneDone) isAction()   {}
func (FetchOneFailed) isAction() {}
func (FetchAllDone) isAction()   {}
func (FetchAllFailed) isAction() {}
func (DeleteDone) isAction()     {}
func (DeleteFailed) isAction()   {}
func (ClearError) isAction()     {}
func (ClearSuccess) isAction()   {}
func (ClearProfile) isAction()   {}
func (SetProfile) isAction()     {}
func (SetMessage) isAction()     {}

// Reduce applies one action to a state and returns the next state. It never
// mutates its input; the profile list is cloned before edits.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Pending:
		s.Loading = true
		s.Error = ""
		if a.ResetSuccess {
			s.Success = ""
		}
	case SaveDone:
		s.Loading = false
		s.Error = ""
		s.Success = a.Message
		p := a.Profile
		s.Profile = &p
		s.Profiles = upsert(s.Profiles, a.Profile)
	case SaveFailed:
		s.Loading = false
		s.Error = a.Err
		s.Success = ""
	case FetchOneDone:
		s.Loading = false
		s.Error = ""
		p := a.Profile
		s.Profile = &p
	case FetchOneFailed:
		s.Loading = false
		s.Error = a.Err
		s.Profile = nil
	case FetchAllDone:
		s.Loading = false
		s.Error = ""
		s.Profiles = append([]api.Profile(nil), a.Profiles...)
	case FetchAllFailed:
		s.Loading = false
		s.Error = a.Err
		s.Profiles = nil
	case DeleteDone:
		s.Loading = false
		s.Error = ""
		s.Success = a.Message
		s.Profile = nil
		s.Profiles = remove(s.Profiles, a.Email)
	case DeleteFailed:
		s.Loading = false
		s.Error = a.Err
		s.Success = ""
	case ClearError:
		s.Error = ""
	case ClearSuccess:
		s.Success = ""
	case ClearProfile:
		s.Profile = nil
		s.Error = ""
		s.Success = ""
	case SetProfile:
		p := a.Profile
		s.Profile = &p
	case SetMessage:
		s.Success = a.Message
	}
	return s
}

func upsert(profiles []api.Profile, profile api.Profile) []api.Profile {
	next := append([]api.Profile(nil), profiles...)
	for i, p := range next {
		if p.Email == profile.Email {
			next[i] = profile
			return next
		}
	}
	return append(next, profile)
}

func remove(profiles []api.Profile, email string) []api.Profile {
	next := make([]api.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Email != email {
			next = append(next, p)
		}
	}
	return next
}
