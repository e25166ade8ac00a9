package power

import "strconv"

// MessageType is an IOKit power message code.
type MessageType uint32

// err_system(0x38) | err_sub(0), the iokit_common_msg prefix.
const (
	sysIOKit       = (0x38 & 0x3f) << 26
	subIOKitCommon = (0 & 0xfff) << 14
)

const (
	// MessageCanSystemSleep asks whether the system may sleep. It must be
	// answered with AllowPowerChange or CancelPowerChange.
	MessageCanSystemSleep MessageType = sysIOKit | subIOKitCommon | 0x270
	// MessageSystemWillSleep announces a sleep that can no longer be
	// vetoed. It must be acknowledged with AllowPowerChange.
	MessageSystemWillSleep MessageType = sysIOKit | subIOKitCommon | 0x280
	// MessageSystemWillNotSleep announces that a queried sleep was vetoed.
	MessageSystemWillNotSleep MessageType = sysIOKit | subIOKitCommon | 0x290
	// MessageSystemHasPoweredOn announces that the system is awake.
	MessageSystemHasPoweredOn MessageType = sysIOKit | subIOKitCommon | 0x300
	// MessageSystemWillPowerOn is sent early in wake, before devices are
	// powered. It is informational.
	MessageSystemWillPowerOn MessageType = sysIOKit | subIOKitCommon | 0x320
)

func (t MessageType) String() string {
	switch t {
	case MessageCanSystemSleep:
		return "kIOMessageCanSystemSleep"
	case MessageSystemWillSleep:
		return "kIOMessageSystemWillSleep"
	case MessageSystemWillNotSleep:
		return "kIOMessageSystemWillNotSleep"
	case MessageSystemHasPoweredOn:
		return "kIOMessageSystemHasPoweredOn"
	case MessageSystemWillPowerOn:
		return "kIOMessageSystemWillPowerOn"
	default:
		return "0x" + hex32(uint32(t))
	}
}

// MessageArgument is the opaque notification id that must be passed back
// when acknowledging a message.
type MessageArgument uintptr

// Return is an IOReturn status code. Zero is success.
type Return int32

const ReturnSuccess Return = 0

func (r Return) String() string {
	return hex32(uint32(r))
}

func hex32(value uint32) string {
	s := strconv.FormatUint(uint64(value), 16)
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}
