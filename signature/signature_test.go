package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClass(t *testing.T) {
	require.Equal(t, "Ljava/lang/String;", String)
	require.Equal(t, "Lxsltc/dom/NodeIterator;", Class("xsltc.dom.NodeIterator"))
	require.Equal(t, "Lxsltc/dom/NodeIterator;", Class("xsltc/dom/NodeIterator"))
	require.Equal(t, "[Ljava/lang/Object;", Array(Object))
	require.Equal(t, "xsltc.DOM", ClassName("xsltc/DOM"))

	name, err := ClassOf("Lxsltc/DOM;")
	require.Nil(t, err)
	require.Equal(t, "xsltc/DOM", name)
	_, err = ClassOf("I")
	require.NotNil(t, err)
}

func TestMethod(t *testing.T) {
	require.Equal(t, "()V", Method(nil, Void))
	require.Equal(t, "(ID)Ljava/lang/String;", Method([]string{Int, Double}, String))
	require.True(t, IsMethod("()V"))
	require.False(t, IsMethod("I"))
	require.True(t, IsReference(String))
	require.True(t, IsReference("[I"))
	require.False(t, IsReference(Double))
}

func TestWidth(t *testing.T) {
	require.Equal(t, 1, Width(Int))
	require.Equal(t, 1, Width(Boolean))
	require.Equal(t, 2, Width(Double))
	require.Equal(t, 2, Width(Long))
	require.Equal(t, 0, Width(Void))
	require.Equal(t, 1, Width(Object))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		sig    string
		args   []string
		result string
	}{
		{"()V", nil, "V"},
		{"(I)D", []string{"I"}, "D"},
		{"(Lxsltc/DOM;ID[Ljava/lang/Object;)Z", []string{"Lxsltc/DOM;", "I", "D", "[Ljava/lang/Object;"}, "Z"},
		{"([[I)[Ljava/lang/String;", []string{"[[I"}, "[Ljava/lang/String;"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			args, result, err := Split(tt.sig)
			require.Nil(t, err)
			require.Equal(t, tt.args, args)
			require.Equal(t, tt.result, result)
		})
	}
}

func TestSplitErrors(t *testing.T) {
	for _, sig := range []string{"I", "(I", "(Lfoo)V", "(Q)V", "()", "()II"} {
		t.Run(sig, func(t *testing.T) {
			_, _, err := Split(sig)
			require.NotNil(t, err)
		})
	}
}

func TestArgsWidth(t *testing.T) {
	n, err := ArgsWidth("(Lxsltc/DOM;Lxsltc/dom/NodeIterator;Lxsltc/runtime/SerializationHandler;I)V")
	require.Nil(t, err)
	require.Equal(t, 4, n)
	n, err = ArgsWidth("(DJI)V")
	require.Nil(t, err)
	require.Equal(t, 5, n)
}

func TestStackEffect(t *testing.T) {
	pop, push, err := StackEffect("(D)Ljava/lang/String;", false)
	require.Nil(t, err)
	require.Equal(t, 2, pop)
	require.Equal(t, 1, push)

	pop, push, err = StackEffect("()D", true)
	require.Nil(t, err)
	require.Equal(t, 1, pop)
	require.Equal(t, 2, push)

	_, _, err = StackEffect("D", true)
	require.NotNil(t, err)
}
