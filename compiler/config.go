// Package compiler provides the generation contexts that code generation
// for a stylesheet runs in: the class being generated, the methods being
// filled with instructions, the storage layout of each kind of generated
// unit, and the allocator for local storage slots.
package compiler

import (
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/rs/zerolog"
)

// Config holds generation options shared by a class and its methods.
type Config struct {
	// Logger receives debug events such as method commits. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger

	// Sink receives diagnostics. Defaults to a new *errors.Bag.
	Sink errors.Sink

	// TiePolicy decides how calls with several equally close overloads are
	// resolved.
	TiePolicy types.TiePolicy

	// Interfaces implemented by the generated class, in internal form.
	Interfaces []string
}

func (c *Config) logger() zerolog.Logger {
	if c == nil || c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

func (c *Config) sink() errors.Sink {
	if c == nil || c.Sink == nil {
		return errors.NewBag()
	}
	return c.Sink
}

func (c *Config) tiePolicy() types.TiePolicy {
	if c == nil {
		return types.FirstDeclared
	}
	return c.TiePolicy
}

func (c *Config) interfaces() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.Interfaces))
	copy(out, c.Interfaces) // isolate from caller
	return out
}
