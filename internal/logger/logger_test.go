package logger_test

import (
	"testing"

	"github.com/c99js/c99js/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestMsgStringFormat(t *testing.T) {
	log := logger.NewDeferredLog()
	logger.Errorf(log, logger.Loc{File: "a.c", Line: 3, Col: 5}, "undeclared identifier %q", "foo")
	logger.AddWarning(log, logger.Loc{File: "a.c", Line: 1, Col: 1}, "unused variable")

	msgs := log.Done()
	require.Len(t, msgs, 2)
	require.True(t, log.HasErrors())

	// Sorted by (file, line, col): the warning at line 1 comes first.
	require.Equal(t, "a.c:1:1: warning: unused variable", logger.MsgString(msgs[0], false))
	require.Equal(t, `a.c:3:5: error: undeclared identifier "foo"`, logger.MsgString(msgs[1], false))
}

func TestAddErrorNoLocOmitsPrefix(t *testing.T) {
	log := logger.NewDeferredLog()
	logger.AddErrorNoLoc(log, "cannot open input file")
	msgs := log.Done()
	require.Equal(t, "error: cannot open input file", logger.MsgString(msgs[0], false))
}
