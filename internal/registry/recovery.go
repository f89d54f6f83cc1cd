package registry

// Adapter is the slice of the multiplexer adapter that crash recovery
// needs. It is defined here (rather than imported from
// internal/multiplexer) so this package has no dependency on how sessions
// are actually invoked — recovery only ever lists them.
type Adapter interface {
	ListSessions() ([]string, error)
}

// Recover populates the registry from whatever daemon-owned sessions the
// multiplexer currently reports, grounded on the original's
// TerminalManager::restore_from_tmux. It runs once, before the dispatcher
// opens its listener (spec §4.4): every session name with the daemon's
// prefix that isn't already registered is synthesized into a placeholder
// record with no working directory and a created_at of "now", since the
// multiplexer is the only source of truth and carries no creation
// timestamp the daemon trusts.
//
// Recovery is best-effort: if the adapter call fails (no multiplexer
// server running yet), Recover returns nil and leaves the registry empty.
func (r *Registry) Recover(adapter Adapter) error {
	sessions, err := adapter.ListSessions()
	if err != nil {
		return nil
	}

	for _, name := range sessions {
		id, ok := ParseID(name)
		if !ok {
			continue
		}
		if _, exists := r.Get(id); exists {
			continue
		}
		r.Insert(&Record{
			ID:                 id,
			Name:               "Restored: " + name,
			MultiplexerSession: name,
			WorkingDir:         nil,
			CreatedAt:          NowEpoch(),
		})
	}

	return nil
}
