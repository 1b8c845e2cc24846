package logger

import (
	"fmt"
	"sync"

	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
)

var settingsData = settings.GetSettings()

var once sync.Once
var instance *zap.Logger

func setupRollbar() {
	rollbar.SetToken(settingsData.ROLLBAR_TOKEN)
	rollbar.SetEnvironment(settingsData.NODE_ENV)
	rollbar.SetServerHost(settingsData.APP_NAME)
	rollbar.SetEnabled(settingsData.ROLLBAR_TOKEN != "")
}

// Get returns the process logger. Production config outside dev.
func Get() *zap.Logger {
	once.Do(func() {
		var err error
		if settingsData.IsProd() {
			instance, err = zap.NewProduction()
		} else {
			instance, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
		setupRollbar()
	})
	return instance
}

// ReportError logs err and forwards it to rollbar when a token is set.
func ReportError(err error, fields ...zap.Field) {
	Get().Error(err.Error(), fields...)
	if settingsData.ROLLBAR_TOKEN == "" {
		return
	}
	extras := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		if field.String != "" {
			extras[field.Key] = field.String
		} else if field.Interface != nil {
			extras[field.Key] = field.Interface
		} else {
			extras[field.Key] = field.Integer
		}
	}
	rollbar.Error(err, extras)
}

func ReportPanic(recovered interface{}, fields ...zap.Field) {
	err := fmt.Errorf("panic: %v", recovered)
	Get().Error(err.Error(), fields...)
	if settingsData.ROLLBAR_TOKEN != "" {
		rollbar.Critical(err)
	}
}

func Sync() {
	if instance != nil {
		_ = instance.Sync()
	}
	rollbar.Wait()
}
