package checkpoint

// PruneOnCompletion deletes every auto checkpoint for a work unit and
// leaves manual checkpoints untouched. The work-unit state machine calls
// this exactly once, at the transition into the terminal state; it is the
// only path that deletes checkpoints outside an explicit remove command.
//
// A work unit with no index file is a no-op, and no index file is created
// for it. Calling twice is harmless: the second call finds no auto
// entries. Returns the number of checkpoints removed.
func (s *Store) PruneOnCompletion(workUnitID string) (int, error) {
	if err := ValidateWorkUnitID(workUnitID); err != nil {
		return 0, err
	}
	if !s.index.Exists(workUnitID) {
		return 0, nil
	}

	idx, err := s.index.Load(workUnitID)
	if err != nil {
		return 0, err
	}

	autos := idx.Auto()
	if len(autos) == 0 {
		return 0, nil
	}

	// Index first, then refs: an interruption leaves orphaned refs, not
	// index entries pointing at deleted snapshots.
	idx.Checkpoints = idx.Manual()
	if err := s.index.Save(idx); err != nil {
		return 0, err
	}

	for _, cp := range autos {
		if err := s.refs.Delete(workUnitID, cp.Name); err != nil {
			return 0, err
		}
	}
	return len(autos), nil
}
