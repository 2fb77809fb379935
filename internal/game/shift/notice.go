package shift

// NoticeKind classifies a transient user-facing message.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient user-facing message emitted by session transitions.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notices returns the read-only notice channel. Notices are dropped when the
// buffer is full; they are advisory, never load-bearing.
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Changes returns a coalesced change-signal channel. A receive means at
// least one transition happened since the last receive; consumers pull a
// fresh Snapshot.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

// notifyLocked emits a notice without blocking.
func (s *Session) notifyLocked(kind NoticeKind, message string) {
	select {
	case s.notices <- Notice{Kind: kind, Message: message}:
	default:
	}
}

// signalLocked marks the session changed without blocking.
func (s *Session) signalLocked() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
