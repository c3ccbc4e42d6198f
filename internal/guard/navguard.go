package guard

// Click describes an activation of an in-page link, carrying just
// enough context to decide whether the navigation is destructive.
type Click struct {
	// Destination is the link target. Empty means the link goes nowhere.
	Destination string
	// SamePageFragment marks a no-op fragment link on the current page.
	SamePageFragment bool
	// Download marks a link explicitly flagged as a download.
	Download bool
	// NewContext marks a link targeting a different browsing context
	// (new tab/window); the current page survives.
	NewContext bool
	// Modified marks a click with a modifier key held, which
	// conventionally opens a new context.
	Modified bool
	// SecondaryButton marks a non-primary-button click.
	SecondaryButton bool
}

// exempt reports whether the click can never destroy unsaved work.
func (c Click) exempt() bool {
	return c.Destination == "" ||
		c.SamePageFragment ||
		c.Download ||
		c.NewContext ||
		c.Modified ||
		c.SecondaryButton
}

// ConfirmUnload is consulted on a full unload (reload, close, external
// navigation). It reports whether the host should require a generic
// "are you sure" confirmation before letting the page go.
func (s *Session) ConfirmUnload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Submitting || s.state == Navigating || s.approved {
		return false
	}
	return s.recomputeLocked()
}

// ShouldInterceptLink reports whether the click must be blocked pending
// explicit confirmation. Exempt clicks (no real destination, download,
// new context, modified, secondary button) never intercept.
func (s *Session) ShouldInterceptLink(c Click) bool {
	if c.exempt() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Submitting || s.state == Navigating || s.approved {
		return false
	}
	return s.recomputeLocked()
}

// ApproveLeave records that the user confirmed leaving with unsaved
// changes; subsequent navigation to the same destination proceeds
// without further interception.
func (s *Session) ApproveLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.approved = true
	s.state = Navigating
	s.logger.Debug("leave approved", "session", s.id, "key", s.key.String())
}

// LinkClick is the blocking form of link interception for hosts with a
// synchronous confirm prompt. It reports whether the navigation should
// proceed. confirm is only invoked when interception is required; a nil
// confirm blocks the navigation.
func (s *Session) LinkClick(c Click, confirm func() bool) bool {
	if !s.ShouldInterceptLink(c) {
		return true
	}
	if confirm == nil || !confirm() {
		return false
	}
	s.ApproveLeave()
	return true
}
