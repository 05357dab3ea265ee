// Package ui is the terminal dashboard for a live jobs session.
//
// Model is a bubbletea model that renders the connection indicator, the
// live/paused toggle, the stats cells, the filtered jobs table and any
// visible notices. It reads everything through Source and reacts to session
// events, so it never holds job data of its own.
//
//	m := ui.NewModel(sess, hub)
//	defer m.Release()
//	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
package ui
