package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keycanary/keycanary/pkg/common"
	"github.com/keycanary/keycanary/pkg/config"
	"github.com/keycanary/keycanary/pkg/driver"
	"github.com/keycanary/keycanary/pkg/injector"
	"github.com/keycanary/keycanary/pkg/notify"
	"github.com/keycanary/keycanary/pkg/process"
)

var (
	configPath = flag.String("config", "config.json", "Path to experiment configuration file (.json or .toml)")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
)

func init() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cfg, err := config.ReadConfigurationFile(*configPath)
	common.Check(err)
	common.Check(cfg.Validate())

	enumerator, err := process.NewPlatformEnumerator()
	common.Check(err)
	keyer, err := injector.NewPlatformKeyer()
	common.Check(err)

	d := driver.NewExperimentDriver(cfg, enumerator, keyer, notify.NewPlatformNotifier())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Stop requested, cancelling the running experiment.")
		d.RequestStop()
	}()

	d.Start()

	os.Exit(consumeEvents(d))
}

// consumeEvents drains the driver's event channel until the run completes and
// returns the process exit code.
func consumeEvents(d *driver.ExperimentDriver) int {
	for ev := range d.Events() {
		switch e := ev.(type) {
		case driver.StatusEvent:
			log.Debugf("status: %s", e.Text)
		case driver.ProgressEvent:
			log.Infof("Phase %d/%d.", e.Step, e.Total)
		case driver.IntervalProgressEvent:
			log.Infof("Interval %d/%d.", e.Interval+1, e.Total)
		case driver.DetectionEvent:
			fmt.Printf("DETECTED\tpid=%d\tname=%s\tr=%.3f\n", e.Result.Pid, e.Result.Name, e.Result.Correlation)
		case driver.CompletionEvent:
			detected := 0
			for _, r := range e.Results {
				if r.Detected {
					detected++
				}
			}
			log.Infof("Run completed: %d processes analyzed, %d detected.", len(e.Results), detected)
			if e.Err != nil {
				log.Errorf("Experiment failed: %v", e.Err)
				return 1
			}
			return 0
		}
	}

	return 0
}
