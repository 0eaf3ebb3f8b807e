// Package signature builds and parses the type signature strings of the
// target ABI. Signatures follow the class-file descriptor grammar: base
// types are single letters, class types are "L" + internal name + ";",
// arrays are "[" + element, and methods are "(" + arguments + ")" + result.
package signature

import (
	"fmt"
	"strings"
)

// Base type signatures.
const (
	Int     = "I"
	Long    = "J"
	Double  = "D"
	Boolean = "Z"
	Void    = "V"
)

// Common class signatures.
var (
	Object = Class("java.lang.Object")
	String = Class("java.lang.String")
)

// InternalName converts a dotted class name to internal form.
// "a.b.C" becomes "a/b/C".
func InternalName(className string) string {
	return strings.ReplaceAll(className, ".", "/")
}

// ClassName converts an internal name back to dotted form.
func ClassName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// Class returns the signature of the named class. Both dotted and internal
// names are accepted.
func Class(className string) string {
	return "L" + InternalName(className) + ";"
}

// Array returns the signature of an array of elem.
func Array(elem string) string {
	return "[" + elem
}

// Method returns the signature of a method taking args and returning result.
func Method(args []string, result string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range args {
		b.WriteString(a)
	}
	b.WriteByte(')')
	b.WriteString(result)
	return b.String()
}

// IsMethod returns true if sig is a method signature.
func IsMethod(sig string) bool {
	return strings.HasPrefix(sig, "(")
}

// IsReference returns true for class and array signatures.
func IsReference(sig string) bool {
	return strings.HasPrefix(sig, "L") || strings.HasPrefix(sig, "[")
}

// ClassOf returns the internal class name of a class signature.
func ClassOf(sig string) (string, error) {
	if len(sig) < 3 || sig[0] != 'L' || sig[len(sig)-1] != ';' {
		return "", fmt.Errorf("not a class signature: %q", sig)
	}
	return sig[1 : len(sig)-1], nil
}

// Width returns the number of storage units a value of the given field
// signature occupies in a local slot or on the operand stack. Long and
// double values take two units; void takes none.
func Width(sig string) int {
	switch sig {
	case Long, Double:
		return 2
	case Void, "":
		return 0
	default:
		return 1
	}
}

// next returns the length of the field signature at the start of s.
func next(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("unexpected end of signature")
	}
	switch s[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 2 {
			return 0, fmt.Errorf("unterminated class signature: %q", s)
		}
		return end + 1, nil
	case '[':
		n, err := next(s[1:])
		if err != nil {
			return 0, err
		}
		return n + 1, nil
	default:
		return 0, fmt.Errorf("invalid signature character %q", s[0])
	}
}

// Split parses a method signature into its argument signatures and result.
func Split(sig string) ([]string, string, error) {
	if !IsMethod(sig) {
		return nil, "", fmt.Errorf("not a method signature: %q", sig)
	}
	end := strings.IndexByte(sig, ')')
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated argument list: %q", sig)
	}
	var args []string
	rest := sig[1:end]
	for rest != "" {
		n, err := next(rest)
		if err != nil {
			return nil, "", fmt.Errorf("invalid method signature %q: %w", sig, err)
		}
		args = append(args, rest[:n])
		rest = rest[n:]
	}
	result := sig[end+1:]
	if result != Void {
		n, err := next(result)
		if err != nil || n != len(result) {
			return nil, "", fmt.Errorf("invalid result in method signature %q", sig)
		}
	}
	return args, result, nil
}

// ArgsWidth returns the number of local storage units taken by the
// arguments of a method signature, not counting any receiver.
func ArgsWidth(sig string) (int, error) {
	args, _, err := Split(sig)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, a := range args {
		total += Width(a)
	}
	return total, nil
}

// StackEffect returns the number of stack units consumed and produced by
// invoking a method with the given signature. A receiver adds one consumed
// unit when hasReceiver is set.
func StackEffect(sig string, hasReceiver bool) (pop, push int, err error) {
	args, result, err := Split(sig)
	if err != nil {
		return 0, 0, err
	}
	for _, a := range args {
		pop += Width(a)
	}
	if hasReceiver {
		pop++
	}
	return pop, Width(result), nil
}
