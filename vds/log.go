package vds

import (
	"github.com/sirupsen/logrus"
)

// Logger logs protocol events. It defaults to the logrus standard logger;
// callers may replace it or tune its level.
var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}
