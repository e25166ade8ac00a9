package main

import (
	"testing"

	"github.com/sagernet/naptime/common/observable"
	"github.com/sagernet/naptime/power"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/stretchr/testify/require"
)

func TestLogEventsDrainsAfterClose(t *testing.T) {
	hook := test.NewLocal(logrus.StandardLogger())
	defer hook.Reset()

	subscriber := observable.NewSubscriber[power.Event](4)
	require.True(t, subscriber.Emit(power.EventSleepQuery))
	require.True(t, subscriber.Emit(power.EventSleep))
	require.True(t, subscriber.Emit(power.EventWake))
	require.NoError(t, subscriber.Close())

	logEvents(subscriber, power.Deny)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	require.Contains(t, entries[0].Message, "sleep_query -> deny")
	require.Contains(t, entries[1].Message, "sleep")
	require.Contains(t, entries[2].Message, "wake")
}
