// SPDX-License-Identifier: GPL-3.0-or-later

package logger

// defaultLogger serves code that runs before any component logger exists, such as CLI parsing.
var defaultLogger = newLogger(5) // skip 2 slog pkg calls, 3 this pkg calls

func Errorf(format string, a ...any) { defaultLogger.Errorf(format, a...) }
