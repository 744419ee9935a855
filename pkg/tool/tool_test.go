package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultFailedOnErrorField(t *testing.T) {
	r := Result{Error: "boom"}
	require.True(t, r.Failed())
}

func TestResultFailedOnErrorPrefixedOutput(t *testing.T) {
	r := Result{Output: "Error: upstream returned 500"}
	require.True(t, r.Failed())
}

func TestResultNotFailedOnPlainOutput(t *testing.T) {
	r := Result{Output: "Successfully completed the step."}
	require.False(t, r.Failed())
}

func TestResultNotFailedOnEmptyResult(t *testing.T) {
	r := Result{}
	require.False(t, r.Failed())
}
