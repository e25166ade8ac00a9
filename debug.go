//go:build debug

package naptime

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/sagernet/naptime/common/log"
)

// Goroutine and thread profiles for spotting a listener that was never closed.
func init() {
	go func() {
		err := http.ListenAndServe("127.0.0.1:8964", nil)
		if err != nil {
			log.NewLogger("debug").Warn("pprof server: ", err)
		}
	}()
}
