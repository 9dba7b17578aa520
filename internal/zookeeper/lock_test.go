package zookeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBySequenceIgnoresProtectedPrefix(t *testing.T) {
	children := []string{
		"_c_9f1e-lock-0000000012",
		"_c_0a2b-lock-0000000003",
		"_c_ffff-lock-0000000007",
	}
	sortBySequence(children)

	assert.Equal(t, []string{
		"_c_0a2b-lock-0000000003",
		"_c_ffff-lock-0000000007",
		"_c_9f1e-lock-0000000012",
	}, children)
	assert.Equal(t, 2, indexOf(children, "_c_9f1e-lock-0000000012"))
	assert.Equal(t, -1, indexOf(children, "missing"))
}
