// ==============================================================================================
// FILE: reporter/reporter_unit_test.go
// ==============================================================================================
// PURPOSE: Validates that error kinds round-trip through KindOf and that Report prints the location.
// ==============================================================================================

package reporter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndKindOf(t *testing.T) {
	err := New(KindParse, 3, 7, "%s", UnbalancedBlock)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindParse, kind)
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	base := errors.New("disk exploded")
	wrapped := Wrap(KindIO, 0, 0, base)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindIO, kind)
	assert.Contains(t, wrapped.Error(), "disk exploded")
}

func TestKindOfOnPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestReportIncludesLocation(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, New(KindName, 12, 4, "undefined name %q", "ghost"))
	assert.Contains(t, buf.String(), "NameError")
	assert.Contains(t, buf.String(), "12:4")
}
