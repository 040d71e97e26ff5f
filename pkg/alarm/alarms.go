package alarm

import (
	"sort"
	"sync"
)

// Faults is the set of tick faults currently active.
type Faults struct {
	active map[string]struct{}
	sync.RWMutex
}

// Add records a fault and returns true if it was not already active.
func (f *Faults) Add(fault string) bool {
	f.Lock()
	defer f.Unlock()
	if f.active == nil {
		f.active = make(map[string]struct{})
	}
	if _, ok := f.active[fault]; ok {
		return false
	}
	f.active[fault] = struct{}{}
	return true
}

// Clear drops all faults and returns true if any were active.
func (f *Faults) Clear() bool {
	f.Lock()
	defer f.Unlock()
	hasActive := len(f.active) > 0
	f.active = nil
	return hasActive
}

func (f *Faults) List() []string {
	f.RLock()
	defer f.RUnlock()
	list := make([]string, 0, len(f.active))
	for fault := range f.active {
		list = append(list, fault)
	}
	sort.Strings(list)
	return list
}
