package tools

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func InitLogger(verbose bool) {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   false,
		PadLevelText:    true,
	})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
