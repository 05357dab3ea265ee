package ui

import "time"

// Option configures a Model.
type Option interface {
	apply(*Model)
}

type optionFunc func(*Model)

func (f optionFunc) apply(m *Model) { f(m) }

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) Option {
	return optionFunc(func(m *Model) {
		m.keys = k
	})
}

// WithTheme replaces the palette.
func WithTheme(t Theme) Option {
	return optionFunc(func(m *Model) {
		m.theme = t
	})
}

// WithNoticeLimit caps the number of notices shown at once. Default: 5.
func WithNoticeLimit(n int) Option {
	return optionFunc(func(m *Model) {
		m.noticeLimit = n
	})
}

// WithClock sets the time source used to expire notices.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(m *Model) {
		if now != nil {
			m.now = now
		}
	})
}
