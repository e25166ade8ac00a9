//go:build darwin && cgo

package power

/*
#include <stdint.h>
#include <IOKit/IOKitLib.h>
*/
import "C"

//export goSystemPowerCallback
func goSystemPowerCallback(refCon C.uintptr_t, service C.io_service_t, messageType C.natural_t, messageArgument C.uintptr_t) {
	systemPowerEventHandler(uintptr(refCon), uint32(service), MessageType(messageType), MessageArgument(messageArgument))
}
