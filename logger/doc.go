/*
Package logger provides logging functionality by defining the required behavior in [Logger]
and providing an implementation of it with [AppLogger].

# AppLogger

[AppLogger] writes through a [*log/slog.Logger], so output format and level are the handler's concern.
Each message may carry a [*LogContext] holding the error behind the event and any data
inessential to the message proper, such as the enum type and labels that failed to match:

	l.Error("enum type drifted", &logger.LogContext{
		Error: err,
		Data:  map[string]any{"type": "myenum"},
	})

[TruncSourceAttr] and [ColorizeLevel] are ReplaceAttr functions for handlers built elsewhere,
such as in package ranger.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.

# SentryLogger

[SentryLogger] wraps a [SkipLogger] and reports warnings and errors to Sentry.
*/
package logger
