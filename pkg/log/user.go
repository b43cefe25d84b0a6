// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints status lines that are not part of the match report
type UserLogger struct {
	log     zerolog.Logger
	info    *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	prepare *pterm.PrefixPrinter
}

// 🎯 NewUserLogger creates a user logger writing to w
func NewUserLogger(ctx context.Context, w io.Writer) *UserLogger {
	return &UserLogger{
		log:     *zerolog.Ctx(ctx),
		info:    pterm.Info.WithPrefix(pterm.Prefix{Text: "📦", Style: pterm.Info.Prefix.Style}).WithWriter(w),
		warning: pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).WithWriter(w),
		success: pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).WithWriter(w),
		prepare: pterm.Warning.WithPrefix(pterm.Prefix{Text: "🔧", Style: pterm.Warning.Prefix.Style}).WithWriter(w),
	}
}

// 🔧 Preparing announces one configured search pair
func (u *UserLogger) Preparing(oldString, newString, match string) {
	msg := fmt.Sprintf("Preparing search-replace: '%s' -> '%s' (Match: %s)", oldString, newString, match)
	u.prepare.Println(msg)
	u.log.Debug().Msg(msg)
}

// 📊 Info prints a neutral status line
func (u *UserLogger) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.info.Println(msg)
	u.log.Info().Msg(msg)
}

// ⚠️ Warning prints a warning
func (u *UserLogger) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.warning.Println(msg)
	u.log.Warn().Msg(msg)
}

// ✅ Success prints a closing summary
func (u *UserLogger) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.success.Println(msg)
	u.log.Info().Msg(msg)
}
