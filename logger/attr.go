package logger

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
)

// TruncSourceAttr shortens the source attribute added by a handler configured with AddSource
// to the file's parent directory, base name and line number.
//
// TruncSourceAttr is meant for [log/slog.HandlerOptions.ReplaceAttr].
func TruncSourceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}

	a.Value = slog.StringValue(fmt.Sprintf(callerTmpl, immediateFilepath(src.File), src.Line))

	return a
}

// ColorizeLevel renders the level attribute in a color matching its severity.
//
// ColorizeLevel is meant for [log/slog.HandlerOptions.ReplaceAttr] in development,
// where logs are read on a terminal.
func ColorizeLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var colorizer func(string, ...any) string
	switch {
	case lvl >= slog.LevelError:
		colorizer = color.RedString
	case lvl >= slog.LevelWarn:
		colorizer = color.YellowString
	case lvl >= slog.LevelInfo:
		colorizer = color.BlueString
	default:
		colorizer = color.WhiteString
	}

	a.Value = slog.StringValue(colorizer("%s", lvl.String()))

	return a
}
