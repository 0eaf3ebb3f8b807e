// Package bytecode holds the instruction-level representation of generated
// translet code.
//
// Two kinds of values live here. The mutable building blocks are used while a
// method is being generated:
//
//   - [List]: an append-only instruction buffer owned by one method generator
//   - [FlowList]: pending branch sites waiting for a target
//   - [ConstantPool]: the class-wide pool of constants and member references
//
// The immutable results are produced when a method is committed:
//
//   - [Method]: a finished method with derived metadata (max locals, max stack)
//   - [Class]: a finished class with its method table and frozen pool
//
// # Ownership
//
// A [List] belongs to exactly one method generator. Committing the method
// copies its instructions into a [Method] and seals the list; any later
// append panics. A [ConstantPool] belongs to the class being generated and is
// frozen when the class is finished.
//
// # Immutability
//
// [Method] and [Class] have no mutation methods. Constructors copy their input
// slices and accessors are index-based:
//
//	m.InstructionAt(0)
//	class.MethodAt(i)
//	pool.EntryAt(j)
package bytecode
