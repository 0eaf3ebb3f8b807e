package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemberKey(t *testing.T) {
	require.Equal(t, "xsltc/runtime/BasisLibrary.realToString:(D)Ljava/lang/String;", RealToString.Key())
	require.Equal(t, "xsltc/dom/NodeIterator.next:()I", IteratorNext.String())
	require.Equal(t, "(Ljava/lang/Object;Lxsltc/DOM;)D", NumberF.Signature)
	require.Equal(t, "Lxsltc/dom/NodeIterator;", NodeIteratorSig)
}

func TestOverloadsHaveDistinctKeys(t *testing.T) {
	require.NotEqual(t, MakeNode.Key(), MakeNodeFromIterator.Key())
	require.NotEqual(t, MakeNodeList.Key(), MakeNodeListFromIter.Key())
}
