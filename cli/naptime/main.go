package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagernet/naptime"
	E "github.com/sagernet/naptime/common/exceptions"
	"github.com/sagernet/naptime/common/log"
	"github.com/sagernet/naptime/common/observable"
	"github.com/sagernet/naptime/power"
	"github.com/sagernet/naptime/service/pause"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	f := new(flags)

	command := &cobra.Command{
		Use:     "naptime",
		Short:   "system sleep and wake listener",
		Version: naptime.Version,
	}
	command.PersistentFlags().StringVarP(&f.ConfigFile, "config", "c", "", "Use a configuration file.")
	command.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")
	command.PersistentFlags().StringVar(&f.LogLevel, "log-level", "", "Set the log level. [possible values: trace, debug, info, warn, error]")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Log power events until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, f, false)
		},
	}
	watch.Flags().BoolVar(&f.DenySleep, "deny-sleep", false, "Deny idle sleep requests.")

	caffeine := &cobra.Command{
		Use:   "caffeine",
		Short: "Deny idle sleep until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, f, true)
		},
	}

	command.AddCommand(watch, caffeine)

	err := command.Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, f *flags, caffeine bool) {
	err := f.load()
	if err != nil {
		logrus.StandardLogger().Log(logrus.FatalLevel, err, "\n\n")
		cmd.Help()
		os.Exit(1)
	}
	if f.Verbose {
		logrus.SetLevel(logrus.TraceLevel)
	} else if f.LogLevel != "" {
		err = log.SetLevel(f.LogLevel)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	response := power.Allow
	if caffeine || f.DenySleep {
		response = power.Deny
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager := pause.NewDefaultManager(ctx)
	manager.RegisterCallback(func(event int) {
		switch event {
		case pause.EventDevicePaused:
			logrus.Info("device paused")
		case pause.EventDeviceWake:
			logrus.Info("device wake")
		}
	})

	subscriber := observable.NewSubscriber[power.Event](16)
	listener, err := power.New(power.Multi(power.Notify(subscriber, response), pause.NewHandler(manager)))
	if err != nil {
		logrus.Fatal(err)
	}
	go logEvents(subscriber, response)

	logrus.Info("listening for power events, sleep queries answered with ", response)

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	<-osSignals

	err = E.Errors(listener.Close(), subscriber.Close())
	if err != nil {
		logrus.Warn(err)
	}
}

func logEvents(subscriber *observable.Subscriber[power.Event], response power.SleepQueryResponse) {
	logger := log.NewLogger("event")
	subscription, _ := subscriber.Subscription()
	for event := range subscription {
		if event == power.EventSleepQuery {
			logger.Info(event, " -> ", response)
		} else {
			logger.Info(event)
		}
	}
}
