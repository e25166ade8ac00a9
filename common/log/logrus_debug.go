//go:build debug

package log

import (
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

var basePath, _ = filepath.Abs(".")

func init() {
	logrus.SetLevel(logrus.TraceLevel)
	logrus.StandardLogger().SetReportCaller(true)
	formatter, isText := logrus.StandardLogger().Formatter.(*logrus.TextFormatter)
	if !isText {
		return
	}
	formatter.CallerPrettyfier = func(frame *runtime.Frame) (function string, file string) {
		file = frame.File
		if relative, err := filepath.Rel(basePath, file); err == nil {
			file = relative
		}
		return "", " " + file + ":" + strconv.Itoa(frame.Line)
	}
}
