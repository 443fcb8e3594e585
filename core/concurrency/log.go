// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Disabled slog handler used when no logger is configured.

package concurrency

import (
	"context"
	"log/slog"
)

type discardSlogHandler struct{}

func (d discardSlogHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (d discardSlogHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardSlogHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return discardSlogHandler{} }
func (d discardSlogHandler) WithGroup(_ string) slog.Handler               { return discardSlogHandler{} }
