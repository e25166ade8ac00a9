package power

import "github.com/sagernet/naptime/common/arena"

// systemPowerEventHandler is the InterestCallback of every listener. The
// worker state is borrowed from its arena cell for the duration of the call
// and always handed back; only the worker's own exit path removes it.
func systemPowerEventHandler(refCon uintptr, _ uint32, messageType MessageType, argument MessageArgument) {
	handle := arena.Handle(refCon)
	state, loaded := workerStates.Checkout(handle)
	if !loaded {
		return
	}
	defer workerStates.Checkin(handle)
	state.dispatch(messageType, argument)
}

func (s *workerState) dispatch(messageType MessageType, argument MessageArgument) {
	s.logger.Trace("message: ", messageType)
	switch messageType {
	// The system wants to sleep and may be refused. Either answer must be
	// given within 30 seconds.
	case MessageCanSystemSleep:
		switch s.handler.SleepQuery() {
		case Deny:
			if ret := s.platform.CancelPowerChange(s.connection, argument); ret != ReturnSuccess {
				s.logger.Warn("IOCancelPowerChange failed. ret=", ret)
			}
		default:
			s.allow(argument)
		}
	// The sleep is committed, but still has to be acknowledged.
	case MessageSystemWillSleep:
		s.handler.Sleep()
		s.allow(argument)
	case MessageSystemWillNotSleep:
		s.handler.SleepFailed()
	case MessageSystemWillPowerOn:
	case MessageSystemHasPoweredOn:
		s.handler.Wake()
	default:
		s.logger.Debug("unknown message type ", messageType)
	}
}

func (s *workerState) allow(argument MessageArgument) {
	if ret := s.platform.AllowPowerChange(s.connection, argument); ret != ReturnSuccess {
		s.logger.Warn("IOAllowPowerChange failed. ret=", ret)
	}
}
