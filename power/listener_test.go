package power_test

import (
	"sync"
	"testing"
	"time"

	E "github.com/sagernet/naptime/common/exceptions"
	"github.com/sagernet/naptime/common/runloop"
	"github.com/sagernet/naptime/power"
	"github.com/sagernet/naptime/power/powertest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	access   sync.Mutex
	calls    []string
	response power.SleepQueryResponse
	running  int
	overlap  bool
	delay    time.Duration
}

func (h *recordingHandler) record(call string) {
	h.access.Lock()
	h.running++
	if h.running > 1 {
		h.overlap = true
	}
	h.calls = append(h.calls, call)
	h.access.Unlock()
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.access.Lock()
	h.running--
	h.access.Unlock()
}

func (h *recordingHandler) SleepQuery() power.SleepQueryResponse {
	h.record("sleep_query")
	return h.response
}

func (h *recordingHandler) SleepFailed() { h.record("sleep_failed") }
func (h *recordingHandler) Sleep()       { h.record("sleep") }
func (h *recordingHandler) Wake()        { h.record("wake") }

func (h *recordingHandler) Calls() []string {
	h.access.Lock()
	defer h.access.Unlock()
	return append([]string(nil), h.calls...)
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return logger, hook
}

func newListener(t *testing.T, handler power.Handler) (*power.Listener, *powertest.Platform) {
	platform := powertest.New()
	logger, _ := newTestLogger()
	listener, err := power.New(handler, power.WithPlatform(platform), power.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, listener.Close())
	})
	return listener, platform
}

func TestSleepWakeScenario(t *testing.T) {
	handler := new(recordingHandler)
	_, platform := newListener(t, handler)
	connection := platform.Connection()
	require.NotZero(t, connection)

	require.True(t, platform.Deliver(power.MessageCanSystemSleep, 0x11))
	require.Equal(t, []string{"sleep_query"}, handler.Calls())
	require.Equal(t, []powertest.Ack{{Kind: powertest.AckAllow, Connection: connection, Argument: 0x11}}, platform.Acks())

	require.True(t, platform.Deliver(power.MessageSystemWillSleep, 0x12))
	require.Equal(t, []string{"sleep_query", "sleep"}, handler.Calls())
	require.Equal(t, []powertest.Ack{
		{Kind: powertest.AckAllow, Connection: connection, Argument: 0x11},
		{Kind: powertest.AckAllow, Connection: connection, Argument: 0x12},
	}, platform.Acks())

	require.True(t, platform.Deliver(power.MessageSystemWillPowerOn, 0x13))
	require.True(t, platform.Deliver(power.MessageSystemHasPoweredOn, 0x14))
	require.Equal(t, []string{"sleep_query", "sleep", "wake"}, handler.Calls())
	require.Len(t, platform.Acks(), 2)
}

func TestSleepQueryDenyCancels(t *testing.T) {
	handler := &recordingHandler{response: power.Deny}
	_, platform := newListener(t, handler)

	require.True(t, platform.Deliver(power.MessageCanSystemSleep, 0xbeef))
	require.True(t, platform.Deliver(power.MessageSystemWillNotSleep, 0xbef0))
	require.Equal(t, []string{"sleep_query", "sleep_failed"}, handler.Calls())
	require.Equal(t, []powertest.Ack{{
		Kind:       powertest.AckCancel,
		Connection: platform.Connection(),
		Argument:   0xbeef,
	}}, platform.Acks())
}

func TestUnknownMessageIgnored(t *testing.T) {
	handler := new(recordingHandler)
	_, platform := newListener(t, handler)
	require.True(t, platform.Deliver(power.MessageType(0xe0000999), 1))
	require.Empty(t, handler.Calls())
	require.Empty(t, platform.Acks())
}

func TestAckFailureIsNotFatal(t *testing.T) {
	handler := new(recordingHandler)
	platform := powertest.New()
	platform.SetAckReturns(power.Return(-536870212), power.ReturnSuccess)
	logger, hook := newTestLogger()
	listener, err := power.New(handler, power.WithPlatform(platform), power.WithLogger(logger))
	require.NoError(t, err)
	defer listener.Close()

	require.True(t, platform.Deliver(power.MessageCanSystemSleep, 1))
	require.True(t, platform.Deliver(power.MessageSystemHasPoweredOn, 2))
	require.Equal(t, []string{"sleep_query", "wake"}, handler.Calls())

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			require.Contains(t, entry.Message, "IOAllowPowerChange failed")
			warned = true
		}
	}
	require.True(t, warned)
}

func TestCallbacksAreSerialized(t *testing.T) {
	handler := &recordingHandler{delay: time.Millisecond}
	_, platform := newListener(t, handler)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			platform.Deliver(power.MessageSystemHasPoweredOn, 0)
		}()
	}
	wg.Wait()
	require.Len(t, handler.Calls(), 20)
	require.False(t, handler.overlap)
}

func TestDeliveryOrder(t *testing.T) {
	handler := new(recordingHandler)
	_, platform := newListener(t, handler)
	sequence := []power.MessageType{
		power.MessageSystemHasPoweredOn,
		power.MessageCanSystemSleep,
		power.MessageSystemWillNotSleep,
		power.MessageCanSystemSleep,
		power.MessageSystemWillSleep,
		power.MessageSystemHasPoweredOn,
	}
	for i, messageType := range sequence {
		require.True(t, platform.Deliver(messageType, power.MessageArgument(i)))
	}
	require.Equal(t, []string{"wake", "sleep_query", "sleep_failed", "sleep_query", "sleep", "wake"}, handler.Calls())
}

func TestNoCallbacksAfterClose(t *testing.T) {
	handler := new(recordingHandler)
	platform := powertest.New()
	listener, err := power.New(handler, power.WithPlatform(platform))
	require.NoError(t, err)
	require.True(t, platform.Deliver(power.MessageSystemHasPoweredOn, 0))

	require.NoError(t, listener.Close())
	require.False(t, platform.Deliver(power.MessageSystemHasPoweredOn, 0))
	require.False(t, platform.Deliver(power.MessageCanSystemSleep, 0))
	require.Equal(t, []string{"wake"}, handler.Calls())
	require.Equal(t, 1, platform.Deregistered())
	require.Equal(t, 1, platform.ServiceClosed())
	require.Equal(t, 1, platform.PortsDestroyed())
	require.Zero(t, platform.Loop().Sources())
}

func TestRetainReleaseBalanced(t *testing.T) {
	platform := powertest.New()
	listener, err := power.New(power.NopHandler{}, power.WithPlatform(platform))
	require.NoError(t, err)
	loop := platform.Loop()
	require.Equal(t, int64(2), loop.RetainCount(), "worker and owner each hold one retain")

	require.NoError(t, listener.Close())
	require.NoError(t, listener.Close())
	require.Zero(t, loop.RetainCount())
	require.Equal(t, int64(2), loop.Retains())
	require.Equal(t, int64(2), loop.Releases())
}

func TestRegistrationFailure(t *testing.T) {
	platform := powertest.New()
	platform.FailRegistration(true)
	listener, err := power.New(new(recordingHandler), power.WithPlatform(platform))
	require.Nil(t, listener)
	require.Error(t, err)
	powerErr, isPowerErr := E.Cast[*power.Error](err)
	require.True(t, isPowerErr)
	require.Equal(t, "IORegisterForSystemPower failed. code=00000000", powerErr.Error())

	loop := platform.Loop()
	require.Zero(t, loop.RetainCount())
	require.Equal(t, int64(1), loop.Retains())
	require.Equal(t, int64(1), loop.Releases())
	require.Zero(t, platform.Deregistered())
	require.False(t, platform.Deliver(power.MessageCanSystemSleep, 0))
}

func TestCloseAfterForcedStop(t *testing.T) {
	platform := powertest.New()
	listener, err := power.New(new(recordingHandler), power.WithPlatform(platform))
	require.NoError(t, err)

	platform.ForceStop()
	require.Eventually(t, func() bool {
		return platform.PortsDestroyed() == 1
	}, time.Second, 5*time.Millisecond)

	closed := make(chan struct{})
	go func() {
		listener.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close hung after the loop had stopped")
	}
	require.Zero(t, platform.Loop().RetainCount())
}

func TestCloseImmediately(t *testing.T) {
	for i := 0; i < 50; i++ {
		platform := powertest.New()
		listener, err := power.New(power.NopHandler{}, power.WithPlatform(platform))
		require.NoError(t, err)
		require.NoError(t, listener.Close())
		require.Zero(t, platform.Loop().RetainCount())
	}
}

func TestIndependentListeners(t *testing.T) {
	first := new(recordingHandler)
	second := new(recordingHandler)
	_, firstPlatform := newListener(t, first)
	_, secondPlatform := newListener(t, second)
	require.True(t, firstPlatform.Deliver(power.MessageSystemWillSleep, 1))
	require.True(t, secondPlatform.Deliver(power.MessageSystemHasPoweredOn, 2))
	require.Equal(t, []string{"sleep"}, first.Calls())
	require.Equal(t, []string{"wake"}, second.Calls())
}

func TestNilHandler(t *testing.T) {
	_, err := power.New(nil, power.WithPlatform(powertest.New()))
	_, isPowerErr := E.Cast[*power.Error](err)
	require.True(t, isPowerErr)
}

type sourceWatchLoop struct {
	*runloop.Loop
	retainsAtAdd chan<- int64
}

func (l *sourceWatchLoop) AddSource(source power.RunLoopSource) {
	l.retainsAtAdd <- l.RetainCount()
	l.Loop.AddSource(source)
}

type sourceWatchPlatform struct {
	*powertest.Platform
	retainsAtAdd chan int64
}

func (p *sourceWatchPlatform) CurrentRunLoop() power.RunLoop {
	return &sourceWatchLoop{p.Platform.CurrentRunLoop().(*runloop.Loop), p.retainsAtAdd}
}

func TestOwnerRetainsBeforeSourceAdded(t *testing.T) {
	for i := 0; i < 50; i++ {
		platform := &sourceWatchPlatform{powertest.New(), make(chan int64, 1)}
		listener, err := power.New(power.NopHandler{}, power.WithPlatform(platform))
		require.NoError(t, err)
		require.Equal(t, int64(2), <-platform.retainsAtAdd, "worker and owner each hold one retain")
		require.True(t, platform.Deliver(power.MessageSystemHasPoweredOn, 0))
		require.NoError(t, listener.Close())
		require.Zero(t, platform.Loop().RetainCount())
	}
}

type blockingHandler struct {
	power.NopHandler
	entered chan struct{}
	release chan struct{}
}

func (h *blockingHandler) Wake() {
	close(h.entered)
	<-h.release
}

func TestCloseWaitsForRunningCallback(t *testing.T) {
	handler := &blockingHandler{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	platform := powertest.New()
	listener, err := power.New(handler, power.WithPlatform(platform))
	require.NoError(t, err)

	delivered := make(chan bool, 1)
	go func() {
		delivered <- platform.Deliver(power.MessageSystemHasPoweredOn, 0)
	}()
	<-handler.entered

	closed := make(chan error, 1)
	go func() {
		closed <- listener.Close()
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while a callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(handler.release)
	select {
	case err = <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the callback finished")
	}
	require.True(t, <-delivered, "the callback ran to completion")
	require.Equal(t, 1, platform.PortsDestroyed())
}
