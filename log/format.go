// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const (
	timeFormat        = "2006-01-02T15:04:05-0700"
	termTimeFormat    = "01-02|15:04:05.000"
	termMsgJust       = 40
	termCtxMaxPadding = 40
)

var spaces = bytes.Repeat([]byte(" "), termCtxMaxPadding)

func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	b := bytes.NewBuffer(buf)

	color := ""
	if usecolor {
		switch r.Level {
		case LevelCrit:
			color = "\x1b[35m"
		case slog.LevelError:
			color = "\x1b[31m"
		case slog.LevelWarn:
			color = "\x1b[33m"
		case slog.LevelInfo:
			color = "\x1b[32m"
		case slog.LevelDebug:
			color = "\x1b[36m"
		case LevelTrace:
			color = "\x1b[34m"
		}
	}
	if color != "" {
		b.WriteString(color)
		b.WriteString(LevelAlignedString(r.Level))
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(LevelAlignedString(r.Level))
	}
	b.WriteByte('[')
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	// try to justify the log output for short messages
	if (r.NumAttrs()+len(h.attrs)) > 0 && len(r.Message) < termMsgJust {
		b.Write(spaces[:termMsgJust-len(r.Message)])
	}

	for _, attr := range h.attrs {
		h.formatAttr(b, attr, color)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.formatAttr(b, attr, color)
		return true
	})
	b.WriteByte('\n')
	return b.Bytes()
}

func (h *TerminalHandler) formatAttr(b *bytes.Buffer, attr slog.Attr, color string) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	val := FormatSlogValue(attr.Value)

	padding := h.fieldPadding[attr.Key]
	length := utf8.RuneCountInString(val)
	if padding < length && length <= termCtxMaxPadding {
		padding = length
		h.fieldPadding[attr.Key] = padding
	}

	b.WriteByte(' ')
	if color != "" {
		b.WriteString(color)
		b.WriteString(attr.Key)
		b.WriteString("\x1b[0m=")
	} else {
		b.WriteString(attr.Key)
		b.WriteByte('=')
	}
	b.WriteString(val)
	if padding > length {
		b.Write(spaces[:padding-length])
	}
}

// FormatSlogValue formats a slog.Value for serialization to terminal.
func FormatSlogValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return escapeString(v.String())
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case *big.Int:
			if x == nil {
				return "<nil>"
			}
			return x.String()
		case *uint256.Int:
			if x == nil {
				return "<nil>"
			}
			return x.Dec()
		case error:
			return escapeString(x.Error())
		case fmt.Stringer:
			if x == nil || (reflect.ValueOf(x).Kind() == reflect.Pointer && reflect.ValueOf(x).IsNil()) {
				return "<nil>"
			}
			return escapeString(x.String())
		}
	}
	return escapeString(fmt.Sprintf("%+v", v.Any()))
}

// builtinReplaceJSON renames the builtin time and level keys and stringifies
// attribute values the JSON encoder would otherwise mangle.
func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}

func escapeString(s string) string {
	needsQuoting := false
	for _, r := range s {
		// We quote everything below " (0x22) and above~ (0x7E), plus equal-sign
		if r < '"' || r > '~' || r == '=' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return strconv.Quote(s)
}
