package middleware

import (
	"io"

	applog "github.com/darkkaiser/competitor-dashboard/pkg/log"
	"github.com/labstack/gommon/log"
)

// Logger Echo 내부 로그를 애플리케이션 로거로 보내는 echo.Logger 구현입니다.
// Print, Debugf 같은 메서드는 임베드된 logrus Logger의 것을 그대로 사용합니다.
type Logger struct {
	*applog.Logger
}

func (l Logger) Output() io.Writer { return l.Logger.Out }

func (l Logger) Prefix() string { return "" }

// SetPrefix, SetHeader Echo 고유의 출력 형식은 사용하지 않습니다.
func (l Logger) SetPrefix(string) {}

func (l Logger) SetHeader(string) {}

func (l Logger) Level() log.Lvl {
	switch l.Logger.GetLevel() {
	case applog.TraceLevel, applog.DebugLevel:
		return log.DEBUG
	case applog.InfoLevel:
		return log.INFO
	case applog.WarnLevel:
		return log.WARN
	case applog.ErrorLevel:
		return log.ERROR
	}
	return log.OFF
}

func (l Logger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.Logger.SetLevel(applog.DebugLevel)
	case log.INFO:
		l.Logger.SetLevel(applog.InfoLevel)
	case log.WARN:
		l.Logger.SetLevel(applog.WarnLevel)
	case log.ERROR:
		l.Logger.SetLevel(applog.ErrorLevel)
	}
}

func (l Logger) Printj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Print() }

func (l Logger) Debugj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Debug() }

func (l Logger) Infoj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Info() }

func (l Logger) Warnj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Warn() }

func (l Logger) Errorj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Error() }

func (l Logger) Fatalj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Fatal() }

func (l Logger) Panicj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Panic() }
