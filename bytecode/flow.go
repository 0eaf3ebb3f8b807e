package bytecode

// FlowList collects branch instructions that share a destination which is
// not known when they are emitted. Once the destination has been emitted the
// caller back-patches every branch in the list to it.
type FlowList struct {
	handles []Handle
}

// NewFlowList returns a flow list holding the given branch handles.
func NewFlowList(handles ...Handle) *FlowList {
	fl := &FlowList{}
	fl.handles = append(fl.handles, handles...)
	return fl
}

// Add appends a branch handle and returns the list.
func (fl *FlowList) Add(h Handle) *FlowList {
	fl.handles = append(fl.handles, h)
	return fl
}

// Append moves the branches of other into this list and returns it.
func (fl *FlowList) Append(other *FlowList) *FlowList {
	if other != nil {
		fl.handles = append(fl.handles, other.handles...)
	}
	return fl
}

// Len returns the number of pending branches.
func (fl *FlowList) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.handles)
}

// Empty returns true if there are no pending branches.
func (fl *FlowList) Empty() bool {
	return fl.Len() == 0
}

// Handles returns a copy of the pending branch handles.
func (fl *FlowList) Handles() []Handle {
	if fl == nil {
		return nil
	}
	out := make([]Handle, len(fl.handles))
	copy(out, fl.handles)
	return out
}

// BackPatch points every pending branch at target.
func (fl *FlowList) BackPatch(list *List, target Handle) {
	if fl == nil {
		return
	}
	for _, h := range fl.handles {
		list.SetTarget(h, target)
	}
}
