package power

import (
	"github.com/sagernet/naptime/common/log"

	"github.com/sirupsen/logrus"
)

type options struct {
	platform Platform
	logger   logrus.Ext1FieldLogger
}

type Option func(o *options)

// WithPlatform replaces the native platform, mainly for tests.
func WithPlatform(platform Platform) Option {
	return func(o *options) {
		o.platform = platform
	}
}

func WithLogger(logger logrus.Ext1FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) (*options, error) {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewLogger("power")
	}
	if o.platform == nil {
		platform, err := NativePlatform()
		if err != nil {
			return nil, err
		}
		o.platform = platform
	}
	return o, nil
}
