package pgenum

import "log/slog"

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

var (
	AppLogKind = slog.StringValue("app")
	CLILogKind = slog.StringValue("cli")

	// MaskedLogValue is a convenience [log/slog.Value]
	// to be used in implementations of [log/slog.LogValuer]
	// to hide sensitive data, such as database passwords, from log messages.
	MaskedLogValue = slog.StringValue(LogMaskVal)
)
