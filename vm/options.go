package vm

// Option is a configuration function for a VirtualMachine.
type Option func(*VirtualMachine)

// WithNatives registers native implementations of runtime methods, keyed
// by abi.Member.Key(). They replace any default implementation.
func WithNatives(natives map[string]Native) Option {
	return func(vm *VirtualMachine) {
		for key, fn := range natives {
			vm.natives[key] = fn
		}
	}
}

// WithDocument sets the document returned by natives that need one when
// no document is passed explicitly.
func WithDocument(doc *Document) Option {
	return func(vm *VirtualMachine) {
		vm.document = doc
	}
}

// WithSubtype records that instances of class may be used where super is
// expected, for CHECKCAST and INSTANCEOF.
func WithSubtype(class, super string) Option {
	return func(vm *VirtualMachine) {
		if vm.supers[class] == nil {
			vm.supers[class] = map[string]bool{}
		}
		vm.supers[class][super] = true
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in number of instructions. A value of 0 disables the check.
// The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithMaxSteps limits the number of instructions a single call may execute.
// Zero means no limit.
func WithMaxSteps(steps int) Option {
	return func(vm *VirtualMachine) {
		vm.maxSteps = steps
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
