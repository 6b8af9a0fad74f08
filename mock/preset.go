package mock

import "github.com/fwojciec/xhsnote"

var _ xhsnote.PresetService = (*PresetService)(nil)

// PresetService is a mock implementation of xhsnote.PresetService.
type PresetService struct {
	LookupFn func(noteID string) (*xhsnote.Record, bool)
}

func (s *PresetService) Lookup(noteID string) (*xhsnote.Record, bool) {
	return s.LookupFn(noteID)
}
